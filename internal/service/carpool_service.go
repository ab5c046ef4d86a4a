package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linchh/campus-carpool/internal/config"
	"github.com/linchh/campus-carpool/internal/eligibility"
	"github.com/linchh/campus-carpool/internal/model"
)

var tripTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ExcelGenerator renders a principal's ride history as a workbook.
type ExcelGenerator interface {
	Generate(owner model.Principal, carpools []model.Carpool) ([]byte, error)
}

type CarpoolService struct {
	carpools   CarpoolStore
	users      UserStore
	fares      FareStore
	excel      ExcelGenerator
	windowDays int
	maxRoster  int
}

func NewCarpoolService(carpools CarpoolStore, users UserStore, fares FareStore, excel ExcelGenerator, cfg *config.Config) *CarpoolService {
	return &CarpoolService{
		carpools:   carpools,
		users:      users,
		fares:      fares,
		excel:      excel,
		windowDays: cfg.Carpool.WindowDays,
		maxRoster:  cfg.Carpool.MaxRoster,
	}
}

type CreateCarpoolInput struct {
	Date            time.Time
	Time            string
	FareEntryID     uuid.UUID
	LowerPassengers int
}

// Create opens a new carpool. The creator must be a student and boards it
// immediately.
func (s *CarpoolService) Create(ctx context.Context, principal model.Principal, input CreateCarpoolInput) (*model.Carpool, error) {
	if !principal.IsStudent() {
		return nil, ErrPermissionDenied
	}
	if !tripTimePattern.MatchString(input.Time) {
		return nil, fmt.Errorf("%w: time must match HH:MM", ErrInvalidInput)
	}
	if input.LowerPassengers < model.MinLowerPassengers || input.LowerPassengers > model.MaxLowerPassengers {
		return nil, fmt.Errorf("%w: minimum headcount must be between %d and %d",
			ErrInvalidInput, model.MinLowerPassengers, model.MaxLowerPassengers)
	}

	today := dateOnly(time.Now().UTC())
	tripDate := dateOnly(input.Date)
	if tripDate.Before(today) {
		return nil, fmt.Errorf("%w: trip date is in the past", ErrInvalidInput)
	}
	if tripDate.After(today.AddDate(0, 0, s.windowDays)) {
		return nil, fmt.Errorf("%w: trip date is more than %d days ahead", ErrInvalidInput, s.windowDays)
	}

	fare, err := s.fares.GetFareEntry(ctx, input.FareEntryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: fare entry", ErrNotFound)
		}
		return nil, err
	}

	return s.carpools.Create(ctx, model.Carpool{
		Date:            tripDate,
		Time:            input.Time,
		FareEntry:       *fare,
		LowerPassengers: input.LowerPassengers,
	}, principal.ID)
}

// Join boards the principal: drivers take the driver seat, students a
// passenger seat. Eligibility is re-checked against the locked snapshot.
func (s *CarpoolService) Join(ctx context.Context, principal model.Principal, carpoolID uuid.UUID) (*model.Carpool, error) {
	full, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch {
	case full.IsDriver():
		if full.Vehicle == nil {
			return nil, fmt.Errorf("%w: driver has no vehicle", ErrInvalidInput)
		}
		active, err := s.carpools.CurrentForDriver(ctx, full.ID)
		if err != nil {
			return nil, err
		}
		hasActive := active != nil && active.ID != carpoolID
		return s.update(ctx, carpoolID, func(cp *model.Carpool) (model.CarpoolChange, error) {
			if err := eligibility.CanJoinAsDriver(*full, *full.Vehicle, *cp, hasActive); err != nil {
				return model.CarpoolChange{}, err
			}
			return model.CarpoolChange{Kind: model.ChangeAssignDriver, DriverID: full.ID}, nil
		})
	case full.IsStudent():
		return s.update(ctx, carpoolID, func(cp *model.Carpool) (model.CarpoolChange, error) {
			if err := eligibility.CanJoinAsPassenger(*full, *cp, s.maxRoster); err != nil {
				return model.CarpoolChange{}, err
			}
			return model.CarpoolChange{Kind: model.ChangeAddPassenger, PassengerID: full.ID}, nil
		})
	default:
		return nil, ErrPermissionDenied
	}
}

// Leave removes a passenger. The last passenger leaving dissolves the
// carpool; Leave then returns nil.
func (s *CarpoolService) Leave(ctx context.Context, principal model.Principal, carpoolID uuid.UUID) (*model.Carpool, error) {
	if !principal.IsStudent() {
		return nil, ErrPermissionDenied
	}
	return s.update(ctx, carpoolID, func(cp *model.Carpool) (model.CarpoolChange, error) {
		dissolve, err := eligibility.CanLeave(principal, *cp)
		if err != nil {
			return model.CarpoolChange{}, err
		}
		if dissolve {
			return model.CarpoolChange{Kind: model.ChangeDissolve}, nil
		}
		return model.CarpoolChange{Kind: model.ChangeRemovePassenger, PassengerID: principal.ID}, nil
	})
}

// AdvanceStatus moves the carpool one lifecycle step forward.
func (s *CarpoolService) AdvanceStatus(ctx context.Context, principal model.Principal, carpoolID uuid.UUID) (*model.Carpool, error) {
	return s.update(ctx, carpoolID, func(cp *model.Carpool) (model.CarpoolChange, error) {
		next, err := eligibility.CanAdvanceStatus(principal, *cp)
		if err != nil {
			return model.CarpoolChange{}, err
		}
		return model.CarpoolChange{Kind: model.ChangeSetStatus, Status: next}, nil
	})
}

func (s *CarpoolService) update(ctx context.Context, id uuid.UUID, apply func(cp *model.Carpool) (model.CarpoolChange, error)) (*model.Carpool, error) {
	updated, err := s.carpools.Update(ctx, id, apply)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Get returns carpool detail. Arrived carpools are not viewable.
func (s *CarpoolService) Get(ctx context.Context, carpoolID uuid.UUID) (*model.Carpool, error) {
	cp, err := s.carpools.GetByID(ctx, carpoolID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cp.Status == model.CarpoolArrived {
		return nil, ErrPermissionDenied
	}
	return cp, nil
}

type ListInput struct {
	Mine           bool
	HasFilters     bool
	Date           *time.Time
	Time           *string
	FareEntryID    *uuid.UUID
	MinAlreadyIn   int
	RequireDriver  bool
	RequireVacancy bool
}

// List serves the three listing modes: the principal's current carpool,
// the filtered listing, and the default future listing.
func (s *CarpoolService) List(ctx context.Context, principal *model.Principal, input ListInput) ([]model.Carpool, error) {
	if input.Mine {
		if principal == nil {
			return nil, ErrPermissionDenied
		}
		var current *model.Carpool
		var err error
		if principal.IsDriver() {
			current, err = s.carpools.CurrentForDriver(ctx, principal.ID)
		} else {
			current, err = s.carpools.CurrentForStudent(ctx, principal.ID)
		}
		if err != nil {
			return nil, err
		}
		if current == nil {
			return []model.Carpool{}, nil
		}
		return []model.Carpool{*current}, nil
	}

	if !input.HasFilters {
		return s.carpools.ListDefault(ctx)
	}

	today := dateOnly(time.Now().UTC())
	date := today
	if input.Date != nil {
		date = dateOnly(*input.Date)
	}
	if date.Before(today) {
		return nil, fmt.Errorf("%w: date must not be in the past", ErrInvalidInput)
	}
	if input.Time != nil && !tripTimePattern.MatchString(*input.Time) {
		return nil, fmt.Errorf("%w: time must match HH:MM", ErrInvalidInput)
	}
	if input.MinAlreadyIn < 0 {
		return nil, fmt.Errorf("%w: already_in must not be negative", ErrInvalidInput)
	}

	return s.carpools.List(ctx, model.CarpoolFilter{
		Date:           date,
		Time:           input.Time,
		FareEntryID:    input.FareEntryID,
		MinAlreadyIn:   input.MinAlreadyIn,
		RequireDriver:  input.RequireDriver,
		RequireVacancy: input.RequireVacancy,
	})
}

// History lists past rides: arrived carpools for students, every assigned
// carpool for drivers.
func (s *CarpoolService) History(ctx context.Context, principal model.Principal) ([]model.Carpool, error) {
	switch {
	case principal.IsStudent():
		return s.carpools.HistoryForStudent(ctx, principal.ID)
	case principal.IsDriver():
		return s.carpools.HistoryForDriver(ctx, principal.ID)
	default:
		return nil, ErrPermissionDenied
	}
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ExportHistory renders the principal's ride history as a workbook.
func (s *CarpoolService) ExportHistory(ctx context.Context, principal model.Principal) (*ExportResult, error) {
	carpools, err := s.History(ctx, principal)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(*owner, carpools)
	if err != nil {
		return nil, err
	}
	fileName := fmt.Sprintf("carpool-history-%s-%s.xlsx", owner.Username, time.Now().UTC().Format("20060102"))
	return &ExportResult{FileName: fileName, Content: content}, nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
