package models

import (
	"time"

	"gorm.io/datatypes"
)

type ClassificationValue string

const (
	ValueThreat      ClassificationValue = "Threat"
	ValueOpportunity ClassificationValue = "Opportunity"
	ValueNeutral     ClassificationValue = "Neutral"
	ValueOutdated    ClassificationValue = "OUTDATED"
)

type ClassificationStatus string

const (
	StatusPending    ClassificationStatus = "PENDING"
	StatusClassified ClassificationStatus = "CLASSIFIED"
	StatusOutdated   ClassificationStatus = "OUTDATED"
)

// FactorScore is one criticality sub-factor: a 0-100 score plus the
// model-generated explanation for it.
type FactorScore struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation" gorm:"type:text"`
}

// Classification is the per-(article, organization) verdict record. The
// pair is the identity; one article carries at most one row per tenant.
// OUTDATED rows are kept for audit and hidden from every read path.
type Classification struct {
	ID             uint          `json:"id" gorm:"primarykey"`
	ArticleID      uint          `json:"article_id" gorm:"not null;uniqueIndex:idx_classifications_article_org"`
	OrganizationID uint          `json:"organization_id" gorm:"not null;uniqueIndex:idx_classifications_article_org"`
	Article        *Article      `json:"article,omitempty" gorm:"foreignKey:ArticleID"`
	Organization   *Organization `json:"-" gorm:"foreignKey:OrganizationID"`

	Classification     ClassificationValue  `json:"classification" gorm:"index;default:''"`
	Status             ClassificationStatus `json:"status" gorm:"index;default:'PENDING'"`
	Explanation        string               `json:"explanation" gorm:"type:text"`
	Reasoning          string               `json:"reasoning" gorm:"type:text"`
	Advice             string               `json:"advice" gorm:"type:text"`
	ClassificationDate *time.Time           `json:"classification_date"`

	Criticality   int         `json:"criticality"`
	Impact        FactorScore `json:"impact" gorm:"embedded;embeddedPrefix:impact_"`
	Likelihood    FactorScore `json:"likelihood" gorm:"embedded;embeddedPrefix:likelihood_"`
	Urgency       FactorScore `json:"urgency" gorm:"embedded;embeddedPrefix:urgency_"`
	Scope         FactorScore `json:"scope" gorm:"embedded;embeddedPrefix:scope_"`
	Novelty       FactorScore `json:"novelty" gorm:"embedded;embeddedPrefix:novelty_"`
	Actionability FactorScore `json:"actionability" gorm:"embedded;embeddedPrefix:actionability_"`

	// Verbatim model response, kept for audit and reprocessing.
	RawVerdict datatypes.JSON `json:"raw_verdict,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Outdated reports whether the row is hidden from user-facing reads. The
// terminal state is historically written to both fields, so both count.
func (c *Classification) Outdated() bool {
	return c.Status == StatusOutdated || c.Classification == ValueOutdated
}

// CanTransition is the lifecycle table: PENDING may become CLASSIFIED or
// OUTDATED, CLASSIFIED may become OUTDATED, nothing leaves OUTDATED.
func CanTransition(from, to ClassificationStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusClassified || to == StatusOutdated
	case StatusClassified:
		return to == StatusOutdated
	default:
		return false
	}
}
