package model

import (
	"testing"
	"time"
)

func TestCapacityForType(t *testing.T) {
	cases := []struct {
		typ          InstitutionType
		wantStudents int
		wantTeachers int
	}{
		{InstitutionSchool, 500, 50},
		{InstitutionPrivateCourse, 200, 20},
		{InstitutionStudyCenter, 50, 5},
		{InstitutionOnlinePlatform, 1000, 10},
		{InstitutionType("garage_band"), 50, 5},
	}
	for _, c := range cases {
		students, teachers := CapacityForType(c.typ)
		if students != c.wantStudents || teachers != c.wantTeachers {
			t.Errorf("CapacityForType(%s) = (%d, %d), want (%d, %d)",
				c.typ, students, teachers, c.wantStudents, c.wantTeachers)
		}
	}
}

func TestNewInstitutionTrial(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	inst := NewInstitution("Hogwarts", InstitutionSchool, now)

	if inst.LicenseTier != LicenseTrial {
		t.Errorf("tier = %s, want trial", inst.LicenseTier)
	}
	if inst.MaxStudents != 500 || inst.MaxTeachers != 50 {
		t.Errorf("capacity = (%d, %d), want (500, 50)", inst.MaxStudents, inst.MaxTeachers)
	}
	if inst.SubscriptionEnd == nil || !inst.SubscriptionEnd.Equal(now.Add(14*24*time.Hour)) {
		t.Errorf("SubscriptionEnd = %v, want 14 days out", inst.SubscriptionEnd)
	}
	if !inst.IsActive {
		t.Error("new institution should be active")
	}
}

func TestInstitutionCapacityChecks(t *testing.T) {
	inst := &Institution{MaxStudents: 2, MaxTeachers: 1}

	if !inst.CanAddStudent(0) || !inst.CanAddStudent(1) {
		t.Error("CanAddStudent should allow counts below the limit")
	}
	if inst.CanAddStudent(2) {
		t.Error("CanAddStudent should refuse at the limit")
	}
	if !inst.CanAddTeacher(0) {
		t.Error("CanAddTeacher should allow counts below the limit")
	}
	if inst.CanAddTeacher(1) {
		t.Error("CanAddTeacher should refuse at the limit")
	}
}

func TestInstitutionUpgradeLicense(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	inst := NewInstitution("Small Academy", InstitutionStudyCenter, now)

	end := now.AddDate(1, 0, 0)
	inst.UpgradeLicense(LicensePremium, 5000, 300, end)

	if inst.LicenseTier != LicensePremium {
		t.Errorf("tier = %s, want premium", inst.LicenseTier)
	}
	if inst.MaxStudents != 5000 || inst.MaxTeachers != 300 {
		t.Errorf("capacity = (%d, %d), want (5000, 300)", inst.MaxStudents, inst.MaxTeachers)
	}
	if inst.SubscriptionEnd == nil || !inst.SubscriptionEnd.Equal(end) {
		t.Errorf("SubscriptionEnd = %v, want %s", inst.SubscriptionEnd, end)
	}
}

func TestInstitutionIsSubscriptionActive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	inst := &Institution{}
	if !inst.IsSubscriptionActive(now) {
		t.Error("nil SubscriptionEnd should read as active")
	}

	future := now.Add(time.Minute)
	inst.SubscriptionEnd = &future
	if !inst.IsSubscriptionActive(now) {
		t.Error("future SubscriptionEnd should read as active")
	}

	inst.SubscriptionEnd = &now
	if inst.IsSubscriptionActive(now) {
		t.Error("subscription ending exactly now should read as expired")
	}
}
