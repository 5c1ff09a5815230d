package requests

import (
	"time"

	"app-catalog-backend/pkg/models"
)

// Transition moves a pending request to target in place.
// approved and rejected are terminal; any move out of them fails with INVALID_TRANSITION.
func Transition(req *models.AccessRequest, target models.RequestStatus, now time.Time) error {
	if target != models.RequestApproved && target != models.RequestRejected {
		return models.NewValidationError("invalid status", models.FieldErrors{
			"status": "status must be approved or rejected",
		})
	}
	if !req.IsPending() {
		return models.NewInvalidTransitionError(req.ID, req.Status, target)
	}

	req.Status = target
	if target == models.RequestApproved {
		today := models.Today(now)
		req.ApprovedDate = &today
	}
	return nil
}
