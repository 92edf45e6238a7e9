package main

import (
	"net/http"
	"time"
)

type pingResponse struct {
	Status              string `json:"status"`
	Timestamp           string `json:"timestamp"`
	CredentialAvailable bool   `json:"credentialAvailable"`
	GatewayInitialized  bool   `json:"gatewayInitialized"`
}

// pingHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Always answers 200. The booleans tell the frontend whether the Stripe key is present and the gateway came up.
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	pingResponse
//	@Router			/ping [get]
func (app *application) pingHandler(w http.ResponseWriter, r *http.Request) {
	st := app.payments.Ping()

	resp := pingResponse{
		Status:              "ok",
		Timestamp:           time.Now().UTC().Format(time.RFC3339Nano),
		CredentialAvailable: st.CredentialAvailable,
		GatewayInitialized:  st.GatewayInitialized,
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
