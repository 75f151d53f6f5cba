package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReclamationStatus is the lifecycle state of a dispute.
type ReclamationStatus string

const (
	ReclamationOpen     ReclamationStatus = "open"
	ReclamationResolved ReclamationStatus = "resolved"
	ReclamationRejected ReclamationStatus = "rejected"
)

// Reclamation is a complaint filed by one user against another,
// independent of any trip or reservation.
type Reclamation struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ComplainantID string             `json:"complainant_id" bson:"complainant_id"`
	ReportedID    string             `json:"reported_id" bson:"reported_id"`
	Reason        string             `json:"reason" bson:"reason"`
	Status        ReclamationStatus  `json:"status" bson:"status"`
	Response      string             `json:"response,omitempty" bson:"response,omitempty"`
	ResolvedAt    *time.Time         `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
