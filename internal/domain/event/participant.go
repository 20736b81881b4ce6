package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ParticipantStatusPending  = "pending"
	ParticipantStatusApproved = "approved"
	ParticipantStatusRejected = "rejected"
)

// Participant is one user's registration record scoped to one event. Only
// approved participants are eligible as match candidates.
type Participant struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Event   *Event    `gorm:"constraint:OnDelete:CASCADE;foreignKey:EventID;references:ID" json:"event,omitempty"`

	FullName string `gorm:"not null;column:full_name" json:"full_name"`
	Email    string `gorm:"not null;column:email" json:"email"`
	Role     string `gorm:"not null;default:'attendee';column:role" json:"role"`
	Status   string `gorm:"not null;default:'pending';column:status;index" json:"status"`

	Sponsor bool `gorm:"not null;default:false;column:sponsor" json:"sponsor"`
	VIP     bool `gorm:"not null;default:false;column:vip" json:"vip"`

	Title             string `gorm:"column:title" json:"title"`
	Company           string `gorm:"column:company" json:"company"`
	CompanyWebsite    string `gorm:"column:company_website" json:"company_website"`
	CompanySizeBucket string `gorm:"column:company_size_bucket" json:"company_size_bucket"`
	Industry          string `gorm:"column:industry" json:"industry"`
	Bio               string `gorm:"column:bio" json:"bio"`
	LookingFor        string `gorm:"column:looking_for" json:"looking_for"`
	Offering          string `gorm:"column:offering" json:"offering"`

	// String sets, stored as jsonb arrays.
	ExpertiseAreas datatypes.JSON `gorm:"type:jsonb;column:expertise_areas" json:"expertise_areas"`
	Interests      datatypes.JSON `gorm:"type:jsonb;column:interests" json:"interests"`

	// Declared intents: up to MaxDeclaredIntents enum values, jsonb array.
	DeclaredIntents datatypes.JSON `gorm:"type:jsonb;column:declared_intents" json:"declared_intents"`

	// Derived by the intent inference stage. IntentVector is the canonical
	// distribution matching actually uses; the AI classification is advisory
	// only and never blended in.
	IntentVector           datatypes.JSON `gorm:"type:jsonb;column:intent_vector" json:"intent_vector"`
	IntentConfidence       float64        `gorm:"not null;default:0;column:intent_confidence" json:"intent_confidence"`
	AIIntentClassification datatypes.JSON `gorm:"type:jsonb;column:ai_intent_classification" json:"ai_intent_classification"`
	AIClassifiedAt         *time.Time     `gorm:"column:ai_classified_at" json:"ai_classified_at,omitempty"`
	IntentComputedAt       *time.Time     `gorm:"column:intent_computed_at" json:"intent_computed_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Participant) TableName() string { return "participant" }
