package main

import (
	"fmt"
	"net/http"

	"himalayanbjj/internal/catalog"

	"github.com/go-chi/chi/v5"
)

// listProgramsHandler godoc
//
//	@Summary		List training programs
//	@Description	Returns every purchasable program, cheapest first. Prices are in paise.
//	@Tags			Programs
//	@Produce		json
//	@Success		200	{array}	catalog.Program
//	@Router			/programs [get]
func (app *application) listProgramsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.All())
}

// getProgramHandler godoc
//
//	@Summary		Get a training program
//	@Tags			Programs
//	@Produce		json
//	@Param			programID	path		string	true	"Program id"
//	@Success		200			{object}	catalog.Program
//	@Failure		404			{object}	error	"Unknown program"
//	@Router			/programs/{programID} [get]
func (app *application) getProgramHandler(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")

	program, ok := catalog.Lookup(programID)
	if !ok {
		app.notFoundResponse(w, r, fmt.Errorf("unknown program %q", programID))
		return
	}

	writeJSON(w, http.StatusOK, program)
}
