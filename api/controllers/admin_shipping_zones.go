package controllers

import (
	"net/http"

	"github.com/oakmart-labs/oakmart-backend/api/responses"
	"github.com/oakmart-labs/oakmart-backend/api/validators"
	shippingsvc "github.com/oakmart-labs/oakmart-backend/internal/shipping"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
)

// AdminZoneCreate stores a new shipping zone.
func AdminZoneCreate(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload shippingsvc.CreateZoneInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		zone, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, zone)
	}
}

// AdminZoneList returns a page of zones.
func AdminZoneList(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, next, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listResponse{Items: rows, NextCursor: next})
	}
}

// AdminZoneDetail returns one zone.
func AdminZoneDetail(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "zoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		zone, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, zone)
	}
}

// AdminZoneUpdate applies a partial update.
func AdminZoneUpdate(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "zoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload shippingsvc.UpdateZoneInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		zone, err := svc.Update(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, zone)
	}
}

// AdminZoneDelete removes a zone.
func AdminZoneDelete(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "zoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type zonePincodesRequest struct {
	Pincodes []string `json:"pincodes" validate:"required,min=1"`
}

// AdminZoneAddPincodes unions destinations into a zone's set.
func AdminZoneAddPincodes(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "zoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload zonePincodesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		zone, err := svc.AddPincodes(r.Context(), id, payload.Pincodes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, zone)
	}
}

// AdminZoneRemovePincodes subtracts destinations from a zone's set.
func AdminZoneRemovePincodes(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "zoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload zonePincodesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		zone, err := svc.RemovePincodes(r.Context(), id, payload.Pincodes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, zone)
	}
}
