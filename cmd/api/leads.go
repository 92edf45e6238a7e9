package main

import (
	"fmt"
	"net/http"
	"strings"

	"himalayanbjj/internal/catalog"
	"himalayanbjj/internal/mailer"
)

type contactPayload struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"omitempty,inphone"`
	Message string `json:"message" validate:"required,max=5000"`
}

// contactHandler godoc
//
//	@Summary		Contact form
//	@Description	Validates the contact form and forwards it to the studio inbox.
//	@Tags			Forms
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		contactPayload		true	"Contact form"
//	@Success		202		{object}	map[string]string	"Message accepted"
//	@Failure		400		{object}	error				"Invalid form"
//	@Failure		500		{object}	error				"Mail delivery failed"
//	@Router			/contact [post]
func (app *application) contactHandler(w http.ResponseWriter, r *http.Request) {
	var payload contactPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.Phone = normalizePhone(payload.Phone)
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	status, err := app.mailer.Send(mailer.ContactTemplate, mailer.FromName, app.config.mail.studioInbox, payload)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("contact mail (status %d): %w", status, err))
		return
	}

	app.logger.Infow("contact form received", "email", payload.Email)

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Thanks, we will get back to you soon."})
}

type signupPayload struct {
	Name       string `json:"name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Phone      string `json:"phone" validate:"required,inphone"`
	Program    string `json:"program" validate:"required,max=100"`
	BeltColor  string `json:"beltColor" validate:"omitempty,oneof=white blue purple brown black"`
	Newsletter bool   `json:"newsletter"`
}

// signupData is what the signup template renders.
type signupData struct {
	Name        string
	Email       string
	Phone       string
	Program     string
	ProgramName string
	BeltColor   string
	Newsletter  bool
}

// signupHandler godoc
//
//	@Summary		Program signup
//	@Description	Registers interest in a program and notifies the studio. Payment happens separately through checkout.
//	@Tags			Forms
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		signupPayload		true	"Signup form"
//	@Success		202		{object}	map[string]string	"Signup accepted"
//	@Failure		400		{object}	error				"Invalid form or unknown program"
//	@Failure		500		{object}	error				"Mail delivery failed"
//	@Router			/signup [post]
func (app *application) signupHandler(w http.ResponseWriter, r *http.Request) {
	var payload signupPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.Phone = normalizePhone(payload.Phone)
	payload.BeltColor = strings.ToLower(strings.TrimSpace(payload.BeltColor))
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	program, ok := catalog.Lookup(payload.Program)
	if !ok {
		app.badRequestResponse(w, r, fmt.Errorf("unknown program %q", payload.Program))
		return
	}

	data := signupData{
		Name:        payload.Name,
		Email:       payload.Email,
		Phone:       payload.Phone,
		Program:     program.ID,
		ProgramName: program.Name,
		BeltColor:   payload.BeltColor,
		Newsletter:  payload.Newsletter,
	}
	status, err := app.mailer.Send(mailer.SignupTemplate, mailer.FromName, app.config.mail.studioInbox, data)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("signup mail (status %d): %w", status, err))
		return
	}

	app.logger.Infow("signup received", "email", payload.Email, "program", program.ID)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "Thanks for signing up! We will contact you with the next steps.",
		"program": program.ID,
	})
}

// normalizePhone drops the spaces and dashes people type into phone fields.
func normalizePhone(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(s))
}
