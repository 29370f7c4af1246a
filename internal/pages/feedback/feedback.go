// Package feedback moderates patient reviews of consultations.
package feedback

import "time"

// Feedback statuses.
const (
	StatusPending  = "pending"
	StatusResolved = "resolved"
	StatusHidden   = "hidden"
)

// Feedback is a patient review of a doctor.
type Feedback struct {
	ID          string    `json:"id"`
	PatientName string    `json:"patientName"`
	DoctorID    string    `json:"doctorId"`
	DoctorName  string    `json:"doctorName"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	Reply       string    `json:"reply,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
