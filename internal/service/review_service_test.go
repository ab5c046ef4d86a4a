package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/linchh/campus-carpool/internal/eligibility"
	"github.com/linchh/campus-carpool/internal/model"
)

type reviewFixture struct {
	svc      *ReviewService
	users    *fakeUserStore
	carpools *fakeCarpoolStore
	reviews  *fakeReviewStore
}

func newReviewFixture() *reviewFixture {
	users := newFakeUserStore()
	carpools := newFakeCarpoolStore(users)
	reviews := newFakeReviewStore()
	return &reviewFixture{
		svc:      NewReviewService(reviews, carpools, users),
		users:    users,
		carpools: carpools,
		reviews:  reviews,
	}
}

func (f *reviewFixture) arrivedCarpool(passengers []model.Principal, driver model.Principal) model.Carpool {
	cp := model.Carpool{
		Time:   "08:30",
		Status: model.CarpoolArrived,
		Driver: &model.CarpoolDriver{
			ID:       driver.ID,
			Username: driver.Username,
			Name:     driver.Profile.Name,
			Vehicle:  *driver.Vehicle,
		},
	}
	for _, p := range passengers {
		cp.Passengers = append(cp.Passengers, model.Passenger{ID: p.ID, Username: p.Username, Name: p.Profile.Name})
	}
	return f.carpools.add(cp)
}

func (f *reviewFixture) student(name string) model.Principal {
	return f.users.add(model.Principal{Username: name, Role: model.RoleStudent, Profile: model.Profile{Name: name}})
}

func (f *reviewFixture) driver(name string) model.Principal {
	return f.users.add(model.Principal{
		Username: name,
		Role:     model.RoleDriver,
		Profile:  model.Profile{Name: name},
		Vehicle:  &model.Vehicle{Capacity: 4, Plate: "ABC-1234", Class: model.VehicleClassStandard},
	})
}

func TestAddReview(t *testing.T) {
	f := newReviewFixture()
	alice := f.student("alice")
	bob := f.driver("bob")
	cp := f.arrivedCarpool([]model.Principal{alice}, bob)

	review, err := f.svc.Add(context.Background(), alice, cp.ID, 5, "  smooth ride  ")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if review.RateeID != bob.ID {
		t.Errorf("ratee = %s, want the driver %s", review.RateeID, bob.ID)
	}
	if review.Content != "smooth ride" {
		t.Errorf("content = %q, want trimmed", review.Content)
	}
}

func TestAddReviewRejections(t *testing.T) {
	f := newReviewFixture()
	alice := f.student("alice")
	outsider := f.student("outsider")
	bob := f.driver("bob")
	arrived := f.arrivedCarpool([]model.Principal{alice}, bob)

	waiting := f.carpools.add(model.Carpool{
		Time:       "09:00",
		Status:     model.CarpoolWaiting,
		Passengers: []model.Passenger{{ID: alice.ID}},
	})

	tests := []struct {
		name    string
		critic  model.Principal
		carpool uuid.UUID
		score   int
		content string
		wantErr error
	}{
		{"driver cannot review", bob, arrived.ID, 5, "nice", ErrPermissionDenied},
		{"score too low", alice, arrived.ID, 0, "nice", ErrInvalidInput},
		{"score too high", alice, arrived.ID, 6, "nice", ErrInvalidInput},
		{"empty content", alice, arrived.ID, 4, "   ", ErrInvalidInput},
		{"unknown carpool", alice, uuid.New(), 4, "nice", ErrNotFound},
		{"not arrived yet", alice, waiting.ID, 4, "nice", eligibility.ErrNotArrived},
		{"not a passenger", outsider, arrived.ID, 4, "nice", eligibility.ErrNotParticipant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Add(context.Background(), tt.critic, tt.carpool, tt.score, tt.content); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Add() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddReviewTwice(t *testing.T) {
	f := newReviewFixture()
	alice := f.student("alice")
	bob := f.driver("bob")
	cp := f.arrivedCarpool([]model.Principal{alice}, bob)

	if _, err := f.svc.Add(context.Background(), alice, cp.ID, 5, "great"); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	if _, err := f.svc.Add(context.Background(), alice, cp.ID, 1, "changed my mind"); !errors.Is(err, eligibility.ErrAlreadyReviewed) {
		t.Fatalf("second Add() = %v, want ErrAlreadyReviewed", err)
	}
}

func TestUpdateReviewOwnership(t *testing.T) {
	f := newReviewFixture()
	alice := f.student("alice")
	carol := f.student("carol")
	bob := f.driver("bob")
	cp := f.arrivedCarpool([]model.Principal{alice, carol}, bob)

	review, err := f.svc.Add(context.Background(), alice, cp.ID, 4, "fine")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	updated, err := f.svc.Update(context.Background(), alice, review.ID, 5, "better than fine")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Score != 5 || updated.Content != "better than fine" {
		t.Errorf("updated review = %+v", updated)
	}

	if _, err := f.svc.Update(context.Background(), carol, review.ID, 1, "not mine"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("Update() by non-critic = %v, want ErrPermissionDenied", err)
	}
}

func TestDeleteReview(t *testing.T) {
	f := newReviewFixture()
	alice := f.student("alice")
	carol := f.student("carol")
	bob := f.driver("bob")
	cp := f.arrivedCarpool([]model.Principal{alice, carol}, bob)

	review, err := f.svc.Add(context.Background(), alice, cp.ID, 4, "fine")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := f.svc.Delete(context.Background(), carol, review.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("Delete() by non-critic = %v, want ErrPermissionDenied", err)
	}
	if err := f.svc.Delete(context.Background(), alice, review.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := f.svc.Delete(context.Background(), alice, review.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete() twice = %v, want ErrNotFound", err)
	}
}

func TestForDriver(t *testing.T) {
	f := newReviewFixture()
	alice := f.student("alice")
	carol := f.student("carol")
	bob := f.driver("bob")
	cp := f.arrivedCarpool([]model.Principal{alice, carol}, bob)

	if _, err := f.svc.Add(context.Background(), alice, cp.ID, 5, "great"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Add(context.Background(), carol, cp.ID, 4, "good"); err != nil {
		t.Fatal(err)
	}

	result, err := f.svc.ForDriver(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("ForDriver() error = %v", err)
	}
	if len(result.Reviews) != 2 {
		t.Errorf("reviews = %d, want 2", len(result.Reviews))
	}
	// (5+4)/2 = 4.5, half-up to 5.
	if result.Score == nil || *result.Score != 5 {
		t.Errorf("score = %v, want 5", result.Score)
	}
}

func TestForDriverNoReviews(t *testing.T) {
	f := newReviewFixture()
	bob := f.driver("bob")

	result, err := f.svc.ForDriver(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("ForDriver() error = %v", err)
	}
	if result.Score != nil {
		t.Errorf("score = %d, want nil while unreviewed", *result.Score)
	}
	if len(result.Reviews) != 0 {
		t.Errorf("reviews = %d, want none", len(result.Reviews))
	}
}

func TestForDriverNotADriver(t *testing.T) {
	f := newReviewFixture()
	alice := f.student("alice")

	if _, err := f.svc.ForDriver(context.Background(), alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ForDriver() on student = %v, want ErrNotFound", err)
	}
	if _, err := f.svc.ForDriver(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ForDriver() unknown = %v, want ErrNotFound", err)
	}
}
