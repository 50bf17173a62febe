package public

import (
	"net/http"
	"time"

	"github.com/BrianJCal99/project-bunnings/internal/interfaces/http/common"
)

type callerResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name,omitempty"`
	Issuer           string     `json:"issuer"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	ExpiresInSeconds int64      `json:"expiresInSeconds"`
}

type verifyResponse struct {
	Status string         `json:"status"`
	User   callerResponse `json:"user"`
}

// authVerifyHandler lets dashboards check a token before querying runs.
func (h *Handler) authVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := common.CallerFrom(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusInternalServerError, "no verified caller on request")
			return
		}

		resp := callerResponse{
			ID:               caller.ID,
			Name:             caller.Name,
			Issuer:           caller.Issuer,
			ExpiresInSeconds: int64(caller.TTL(time.Now()) / time.Second),
		}
		if !caller.ExpiresAt.IsZero() {
			exp := caller.ExpiresAt.UTC()
			resp.ExpiresAt = &exp
		}
		common.WriteJSON(h.logger, w, http.StatusOK, verifyResponse{Status: "ok", User: resp})
	}
}
