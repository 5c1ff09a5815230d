package models

// RequestStatus is the lifecycle state of an access request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// AccessRequest is an employee's ask for access to a restricted App
type AccessRequest struct {
	ID           string        `json:"id" db:"id"`
	AppID        string        `json:"appId" db:"app_id"`
	AppName      string        `json:"appName" db:"app_name"`
	Reason       string        `json:"reason" db:"reason"`
	Department   string        `json:"department" db:"department"`
	Status       RequestStatus `json:"status" db:"status"`
	RequestDate  Date          `json:"requestDate" db:"request_date"`
	ApprovedDate *Date         `json:"approvedDate,omitempty" db:"approved_date"`
}

// IsPending checks if request is pending
func (r *AccessRequest) IsPending() bool {
	return r.Status == RequestPending
}

// IsApproved checks if request is approved
func (r *AccessRequest) IsApproved() bool {
	return r.Status == RequestApproved
}

// IsRejected checks if request is rejected
func (r *AccessRequest) IsRejected() bool {
	return r.Status == RequestRejected
}

// IsTerminal reports whether no further transition is allowed.
func (r *AccessRequest) IsTerminal() bool {
	return r.IsApproved() || r.IsRejected()
}

// Clone returns a copy that does not share the approved date pointer.
func (r AccessRequest) Clone() AccessRequest {
	out := r
	if r.ApprovedDate != nil {
		d := *r.ApprovedDate
		out.ApprovedDate = &d
	}
	return out
}
