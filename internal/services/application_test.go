package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/models"
)

type lifecycleFixture struct {
	appRepo *fakeApplicationRepo
	jobRepo *fakeJobRepo
	cvRepo  *fakeCVRepo
	svc     ApplicationService

	studentID   uuid.UUID
	recruiterID uuid.UUID
	jobID       uuid.UUID
	cvID        uuid.UUID
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	f := &lifecycleFixture{
		appRepo:     newFakeApplicationRepo(),
		jobRepo:     newFakeJobRepo(),
		cvRepo:      newFakeCVRepo(),
		studentID:   uuid.New(),
		recruiterID: uuid.New(),
		jobID:       uuid.New(),
		cvID:        uuid.New(),
	}
	f.svc = NewApplicationService(f.appRepo, f.jobRepo, f.cvRepo, NewApplicationLocks())

	f.jobRepo.Create(context.Background(), &models.Job{
		ID:          f.jobID,
		RecruiterID: f.recruiterID,
		Title:       "Backend Engineer",
		Company:     "CampusHire",
		Description: "Build the recruiting platform",
		IsActive:    true,
	})
	f.cvRepo.CreateWithinCap(context.Background(), &models.CV{
		ID:            f.cvID,
		StudentID:     f.studentID,
		DisplayName:   "CV",
		FileReference: "cv_1.pdf",
		UploadedAt:    time.Now(),
	}, models.MaxCVsPerStudent)

	return f
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	f := newLifecycleFixture(t)

	app, err := f.svc.Apply(context.Background(), f.studentID, f.jobID, f.cvID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.Status != models.StatusPending {
		t.Fatalf("expected pending, got %s", app.Status)
	}
	if app.Score != nil {
		t.Fatal("a fresh application must not carry a score")
	}
}

func TestApplyDuplicateIsConflict(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Apply(ctx, f.studentID, f.jobID, f.cvID); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if _, err := f.svc.Apply(ctx, f.studentID, f.jobID, f.cvID); !apperrors.Is(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestApplyAfterWithdrawIsAllowed(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	app, err := f.svc.Apply(ctx, f.studentID, f.jobID, f.cvID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := f.svc.Withdraw(ctx, app.ID, f.studentID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := f.svc.Apply(ctx, f.studentID, f.jobID, f.cvID); err != nil {
		t.Fatalf("re-apply after withdraw must succeed: %v", err)
	}
}

func TestApplyRejectsInactiveJobAndForeignCV(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Apply(ctx, f.studentID, f.jobID, uuid.New()); !apperrors.Is(err, apperrors.CodeValidation) {
		t.Fatalf("foreign CV must be a validation error, got %v", err)
	}

	f.jobRepo.UpdateActive(ctx, f.jobID, false)
	if _, err := f.svc.Apply(ctx, f.studentID, f.jobID, f.cvID); !apperrors.Is(err, apperrors.CodeValidation) {
		t.Fatalf("inactive job must be a validation error, got %v", err)
	}
}

func TestDecideTransitions(t *testing.T) {
	tests := []struct {
		name     string
		from     models.ApplicationStatus
		to       models.ApplicationStatus
		wantCode apperrors.Code
	}{
		{"pending to reviewed", models.StatusPending, models.StatusReviewed, ""},
		{"pending shortcut to shortlisted", models.StatusPending, models.StatusShortlisted, ""},
		{"pending shortcut to rejected", models.StatusPending, models.StatusRejected, ""},
		{"reviewed to shortlisted", models.StatusReviewed, models.StatusShortlisted, ""},
		{"reviewed to rejected", models.StatusReviewed, models.StatusRejected, ""},
		{"shortlisted is terminal", models.StatusShortlisted, models.StatusRejected, apperrors.CodeStateTransition},
		{"rejected is terminal", models.StatusRejected, models.StatusShortlisted, apperrors.CodeStateTransition},
		{"withdrawn is terminal", models.StatusWithdrawn, models.StatusReviewed, apperrors.CodeStateTransition},
		{"reviewed cannot go back", models.StatusReviewed, models.StatusPending, apperrors.CodeValidation},
		{"cannot decide withdrawn", models.StatusPending, models.StatusWithdrawn, apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLifecycleFixture(t)
			appID := uuid.New()
			f.appRepo.put(&models.Application{
				ID:        appID,
				StudentID: f.studentID,
				JobID:     f.jobID,
				CVID:      f.cvID,
				Status:    tt.from,
			})

			_, err := f.svc.Decide(context.Background(), appID, f.recruiterID, tt.to, "")
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("expected transition to succeed, got %v", err)
				}
				return
			}
			if !apperrors.Is(err, tt.wantCode) {
				t.Fatalf("expected %s error, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestDecideSameStatusIsNoOp(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	appID := uuid.New()
	feedback := "strong fit"
	f.appRepo.put(&models.Application{
		ID:        appID,
		StudentID: f.studentID,
		JobID:     f.jobID,
		CVID:      f.cvID,
		Status:    models.StatusShortlisted,
		Feedback:  &feedback,
	})

	// A retried decision with the same payload must not trip the terminal
	// status check.
	app, err := f.svc.Decide(ctx, appID, f.recruiterID, models.StatusShortlisted, "strong fit")
	if err != nil {
		t.Fatalf("repeat decision must be a no-op, got %v", err)
	}
	if app.Status != models.StatusShortlisted {
		t.Fatalf("status changed on no-op: %s", app.Status)
	}

	// Same status but different feedback is a real change and still illegal
	// from a terminal status.
	if _, err := f.svc.Decide(ctx, appID, f.recruiterID, models.StatusShortlisted, "changed my mind"); !apperrors.Is(err, apperrors.CodeStateTransition) {
		t.Fatalf("expected state transition error, got %v", err)
	}
}

func TestDecideAuthorization(t *testing.T) {
	f := newLifecycleFixture(t)

	app, err := f.svc.Apply(context.Background(), f.studentID, f.jobID, f.cvID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	_, err = f.svc.Decide(context.Background(), app.ID, uuid.New(), models.StatusReviewed, "")
	if !apperrors.Is(err, apperrors.CodeAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestWithdrawRules(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	app, err := f.svc.Apply(ctx, f.studentID, f.jobID, f.cvID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if err := f.svc.Withdraw(ctx, app.ID, uuid.New()); !apperrors.Is(err, apperrors.CodeAuthorization) {
		t.Fatalf("another student's withdraw must be forbidden, got %v", err)
	}

	if _, err := f.svc.Decide(ctx, app.ID, f.recruiterID, models.StatusReviewed, ""); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if err := f.svc.Withdraw(ctx, app.ID, f.studentID); !apperrors.Is(err, apperrors.CodeStateTransition) {
		t.Fatalf("withdraw after review must fail, got %v", err)
	}
}

func TestListByJobRequiresOwnership(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Apply(ctx, f.studentID, f.jobID, f.cvID); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if _, err := f.svc.ListByJob(ctx, f.jobID, uuid.New()); !apperrors.Is(err, apperrors.CodeAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}

	apps, err := f.svc.ListByJob(ctx, f.jobID, f.recruiterID)
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(apps))
	}
}
