package model

import (
	"time"
)

// InstitutionType determines the capacity profile of an institution.
type InstitutionType string

const (
	InstitutionSchool         InstitutionType = "school"
	InstitutionPrivateCourse  InstitutionType = "private_course"
	InstitutionStudyCenter    InstitutionType = "study_center"
	InstitutionOnlinePlatform InstitutionType = "online_platform"
)

// LicenseTier names the subscription level of an institution.
type LicenseTier string

const (
	LicenseTrial    LicenseTier = "trial"
	LicenseStandard LicenseTier = "standard"
	LicensePremium  LicenseTier = "premium"
)

// trialPeriod is the subscription window granted on creation.
const trialPeriod = 14 * 24 * time.Hour

// CapacityForType returns the (maxStudents, maxTeachers) pair for an
// institution type. Unknown types get the smallest profile.
func CapacityForType(t InstitutionType) (maxStudents, maxTeachers int) {
	switch t {
	case InstitutionSchool:
		return 500, 50
	case InstitutionPrivateCourse:
		return 200, 20
	case InstitutionStudyCenter:
		return 50, 5
	case InstitutionOnlinePlatform:
		return 1000, 10
	default:
		return 50, 5
	}
}

// Institution is an organization (school, tutoring center, ...) that
// affiliates teachers and students under a licensed capacity.
type Institution struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Type            InstitutionType `json:"type"`
	LicenseTier     LicenseTier     `json:"license_tier"`
	MaxStudents     int             `json:"max_students"`
	MaxTeachers     int             `json:"max_teachers"`
	SubscriptionEnd *time.Time      `json:"subscription_end,omitempty"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int64           `json:"-"`
}

// NewInstitution creates an institution on a 14-day trial with capacity
// derived from its type.
func NewInstitution(name string, t InstitutionType, now time.Time) *Institution {
	maxStudents, maxTeachers := CapacityForType(t)
	trialEnd := now.Add(trialPeriod)
	return &Institution{
		Name:            name,
		Type:            t,
		LicenseTier:     LicenseTrial,
		MaxStudents:     maxStudents,
		MaxTeachers:     maxTeachers,
		SubscriptionEnd: &trialEnd,
		IsActive:        true,
	}
}

// CanAddStudent reports whether one more active student fits under the
// derived capacity. Callers must check this before creating an affiliation;
// the affiliation write itself does not re-check.
func (i *Institution) CanAddStudent(activeStudents int) bool {
	return activeStudents < i.MaxStudents
}

// CanAddTeacher reports whether one more active teacher fits under the
// derived capacity.
func (i *Institution) CanAddTeacher(activeTeachers int) bool {
	return activeTeachers < i.MaxTeachers
}

// UpgradeLicense replaces tier, capacity limits, and the subscription end
// date together. Persisted through a single versioned update.
func (i *Institution) UpgradeLicense(tier LicenseTier, maxStudents, maxTeachers int, subscriptionEnd time.Time) {
	i.LicenseTier = tier
	i.MaxStudents = maxStudents
	i.MaxTeachers = maxTeachers
	i.SubscriptionEnd = &subscriptionEnd
}

// IsSubscriptionActive is a pure read; it has no side effects and
// enforcement is the caller's responsibility.
func (i *Institution) IsSubscriptionActive(now time.Time) bool {
	return i.SubscriptionEnd == nil || i.SubscriptionEnd.After(now)
}

// InstitutionAdmin links a user to an institution they administer.
// (UserID, InstitutionID) is unique.
type InstitutionAdmin struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	InstitutionID string    `json:"institution_id"`
	AdminTier     string    `json:"admin_tier"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// Admin tiers for InstitutionAdmin.
const (
	AdminTierOwner   = "owner"
	AdminTierManager = "manager"
)

// UpgradeLicenseRequest is the payload for license upgrades.
type UpgradeLicenseRequest struct {
	Tier        string `json:"tier" binding:"required,oneof=trial standard premium"`
	MaxStudents int    `json:"max_students" binding:"required,min=1"`
	MaxTeachers int    `json:"max_teachers" binding:"required,min=1"`
	ValidMonths int    `json:"valid_months" binding:"required,min=1,max=60"`
}
