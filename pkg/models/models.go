package models

import (
	"time"

	"github.com/google/uuid"
)

/* =============================== Enums ================================== */

// Role defines the type of user in the system.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLawyer    Role = "lawyer"
	RoleAssistant Role = "assistant"
	RoleJudge     Role = "judge"
	RoleClient    Role = "client"
)

// CaseType classifies the area of law a case belongs to.
type CaseType string

const (
	CaseTypeCivil     CaseType = "civil"
	CaseTypeCriminal  CaseType = "criminal"
	CaseTypeFamily    CaseType = "family"
	CaseTypeCorporate CaseType = "corporate"
	CaseTypeOther     CaseType = "other"
)

// CaseStatus defines lifecycle states for a case.
type CaseStatus string

const (
	CaseNew      CaseStatus = "new"
	CaseActive   CaseStatus = "active"
	CasePending  CaseStatus = "pending"
	CaseClosed   CaseStatus = "closed"
	CaseArchived CaseStatus = "archived"
)

// HearingStatus defines lifecycle states for a hearing.
type HearingStatus string

const (
	HearingScheduled HearingStatus = "scheduled"
	HearingCompleted HearingStatus = "completed"
	HearingPostponed HearingStatus = "postponed"
	HearingCancelled HearingStatus = "cancelled"
)

// DocumentType classifies a document attached to a case.
type DocumentType string

const (
	DocContract   DocumentType = "contract"
	DocEvidence   DocumentType = "evidence"
	DocPetition   DocumentType = "petition"
	DocCourtOrder DocumentType = "court_order"
	DocOther      DocumentType = "other"
)

/* =============================== Entities =============================== */

// Client represents a person the firm works for.
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Surname   string    `gorm:"not null" json:"surname"`
	Email     *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Case represents a legal case.
//
// The many-to-many relation to clients lives only in the case_clients
// join table and is always derived by querying it; the case row itself
// carries no client list.
type Case struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CaseNumber  string     `gorm:"not null;uniqueIndex" json:"case_number"`
	Title       string     `gorm:"not null" json:"title"`
	Type        CaseType   `gorm:"type:varchar(20);not null" json:"type"`
	Description string     `gorm:"type:text" json:"description"`
	Status      CaseStatus `gorm:"type:varchar(20);default:'new'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Hearings  []Hearing  `json:"hearings,omitempty"`
	Documents []Document `json:"documents,omitempty"`
}

// CaseClient is the join record for the case/client many-to-many relation.
// It is the single source of truth for the association.
type CaseClient struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CaseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_case_client" json:"case_id"`
	ClientID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_case_client" json:"client_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Hearing represents a scheduled court appearance for a case.
// HearingDate is persisted as epoch seconds; sub-second precision is
// discarded on write.
type Hearing struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CaseID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"case_id"`
	HearingDate time.Time     `gorm:"serializer:unixtime;type:bigint;not null" json:"hearing_date"`
	Judge       string        `json:"judge"`
	Status      HearingStatus `gorm:"type:varchar(20);default:'scheduled'" json:"status"`
	Location    string        `json:"location"`
	Notes       string        `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Document represents a document attached to a case. Content is stored
// inline as text.
type Document struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CaseID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"case_id"`
	Title       string       `gorm:"not null" json:"title"`
	Type        DocumentType `gorm:"type:varchar(20);not null" json:"type"`
	ContentType string       `json:"content_type"`
	Content     string       `gorm:"type:text" json:"content"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// User represents an account that can sign in.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string    `gorm:"not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	Enabled      bool      `gorm:"default:true" json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CaseHistory is an audit log entry for case status changes.
type CaseHistory struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CaseID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ActorID   uuid.UUID  `gorm:"type:uuid;index"` // zero when the change comes from the console/system
	Action    string     `gorm:"type:varchar(50);not null"`
	OldStatus CaseStatus `gorm:"type:varchar(20)"`
	NewStatus CaseStatus `gorm:"type:varchar(20)"`
	Reason    string     `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}
