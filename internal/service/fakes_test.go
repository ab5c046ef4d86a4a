package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linchh/campus-carpool/internal/model"
)

// In-memory stand-ins for the gorm repositories. They honor the same
// contracts the services rely on, gorm.ErrRecordNotFound included.

type fakeUserStore struct {
	principals map[uuid.UUID]model.Principal
	passwords  map[string]string
	drivers    []model.DriverSummary
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		principals: make(map[uuid.UUID]model.Principal),
		passwords:  make(map[string]string),
	}
}

func (s *fakeUserStore) add(p model.Principal) model.Principal {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.principals[p.ID] = p
	return p
}

func (s *fakeUserStore) Create(_ context.Context, principal *model.Principal, passwordHash string) error {
	principal.ID = uuid.New()
	s.principals[principal.ID] = *principal
	s.passwords[principal.Username] = passwordHash
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.Principal, error) {
	p, ok := s.principals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.Principal, string, error) {
	for _, p := range s.principals {
		if p.Username == username {
			return &p, s.passwords[username], nil
		}
	}
	return nil, "", gorm.ErrRecordNotFound
}

func (s *fakeUserStore) UsernameTaken(_ context.Context, username string) (bool, error) {
	for _, p := range s.principals {
		if p.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, id uuid.UUID, profile model.Profile, vehicle *model.Vehicle) error {
	p, ok := s.principals[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Profile = profile
	if vehicle != nil {
		vehicle.DriverID = id
		p.Vehicle = vehicle
	}
	s.principals[id] = p
	return nil
}

func (s *fakeUserStore) ListDrivers(_ context.Context) ([]model.DriverSummary, error) {
	return s.drivers, nil
}

type fakeCarpoolStore struct {
	carpools map[uuid.UUID]model.Carpool
	users    *fakeUserStore
}

func newFakeCarpoolStore(users *fakeUserStore) *fakeCarpoolStore {
	return &fakeCarpoolStore{carpools: make(map[uuid.UUID]model.Carpool), users: users}
}

func (s *fakeCarpoolStore) add(cp model.Carpool) model.Carpool {
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	if cp.Status == "" {
		cp.Status = model.CarpoolWaiting
	}
	s.carpools[cp.ID] = cp
	return cp
}

func cloneCarpool(cp model.Carpool) model.Carpool {
	out := cp
	out.Passengers = append([]model.Passenger(nil), cp.Passengers...)
	if cp.Driver != nil {
		driver := *cp.Driver
		out.Driver = &driver
	}
	return out
}

func (s *fakeCarpoolStore) GetByID(_ context.Context, id uuid.UUID) (*model.Carpool, error) {
	cp, ok := s.carpools[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := cloneCarpool(cp)
	return &out, nil
}

func (s *fakeCarpoolStore) List(_ context.Context, filter model.CarpoolFilter) ([]model.Carpool, error) {
	var out []model.Carpool
	for _, cp := range s.carpools {
		if cp.Status != model.CarpoolWaiting || !cp.Date.Equal(filter.Date) {
			continue
		}
		if cp.RosterSize() < filter.MinAlreadyIn {
			continue
		}
		if filter.RequireDriver && !cp.HasDriver() {
			continue
		}
		if filter.RequireDriver && filter.RequireVacancy && !cp.HasVacancy() {
			continue
		}
		if filter.Time != nil && cp.Time < *filter.Time {
			continue
		}
		if filter.FareEntryID != nil && cp.FareEntry.ID != *filter.FareEntryID {
			continue
		}
		out = append(out, cloneCarpool(cp))
	}
	sortCarpools(out)
	return out, nil
}

func (s *fakeCarpoolStore) ListDefault(_ context.Context) ([]model.Carpool, error) {
	var out []model.Carpool
	for _, cp := range s.carpools {
		if cp.Status == model.CarpoolWaiting && cp.RosterSize() > 0 {
			out = append(out, cloneCarpool(cp))
		}
	}
	sortCarpools(out)
	return out, nil
}

func (s *fakeCarpoolStore) CurrentForStudent(_ context.Context, studentID uuid.UUID) (*model.Carpool, error) {
	for _, cp := range s.carpools {
		if cp.Status == model.CarpoolWaiting && cp.IsPassenger(studentID) {
			out := cloneCarpool(cp)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *fakeCarpoolStore) CurrentForDriver(_ context.Context, driverID uuid.UUID) (*model.Carpool, error) {
	for _, cp := range s.carpools {
		if cp.Status == model.CarpoolWaiting && cp.IsDrivenBy(driverID) {
			out := cloneCarpool(cp)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *fakeCarpoolStore) Create(_ context.Context, cp model.Carpool, creatorID uuid.UUID) (*model.Carpool, error) {
	cp.ID = uuid.New()
	cp.Status = model.CarpoolWaiting
	creator := model.Passenger{ID: creatorID}
	if s.users != nil {
		if p, ok := s.users.principals[creatorID]; ok {
			creator.Username = p.Username
			creator.Name = p.Profile.Name
		}
	}
	cp.Passengers = []model.Passenger{creator}
	s.carpools[cp.ID] = cp
	out := cloneCarpool(cp)
	return &out, nil
}

func (s *fakeCarpoolStore) Update(_ context.Context, id uuid.UUID, apply func(cp *model.Carpool) (model.CarpoolChange, error)) (*model.Carpool, error) {
	cp, ok := s.carpools[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	snapshot := cloneCarpool(cp)

	change, err := apply(&snapshot)
	if err != nil {
		return nil, err
	}

	switch change.Kind {
	case model.ChangeAddPassenger:
		passenger := model.Passenger{ID: change.PassengerID}
		if s.users != nil {
			if p, ok := s.users.principals[change.PassengerID]; ok {
				passenger.Username = p.Username
				passenger.Name = p.Profile.Name
			}
		}
		snapshot.Passengers = append(snapshot.Passengers, passenger)
	case model.ChangeRemovePassenger:
		kept := snapshot.Passengers[:0]
		for _, p := range snapshot.Passengers {
			if p.ID != change.PassengerID {
				kept = append(kept, p)
			}
		}
		snapshot.Passengers = kept
	case model.ChangeDissolve:
		delete(s.carpools, id)
		return nil, nil
	case model.ChangeAssignDriver:
		driver := model.CarpoolDriver{ID: change.DriverID}
		if s.users != nil {
			if p, ok := s.users.principals[change.DriverID]; ok {
				driver.Username = p.Username
				driver.Name = p.Profile.Name
				if p.Vehicle != nil {
					driver.Vehicle = *p.Vehicle
				}
			}
		}
		snapshot.Driver = &driver
	case model.ChangeSetStatus:
		snapshot.Status = change.Status
	}

	s.carpools[id] = cloneCarpool(snapshot)
	return &snapshot, nil
}

func (s *fakeCarpoolStore) HistoryForStudent(_ context.Context, studentID uuid.UUID) ([]model.Carpool, error) {
	var out []model.Carpool
	for _, cp := range s.carpools {
		if cp.Status == model.CarpoolArrived && cp.IsPassenger(studentID) {
			out = append(out, cloneCarpool(cp))
		}
	}
	sortCarpools(out)
	return out, nil
}

func (s *fakeCarpoolStore) HistoryForDriver(_ context.Context, driverID uuid.UUID) ([]model.Carpool, error) {
	var out []model.Carpool
	for _, cp := range s.carpools {
		if cp.IsDrivenBy(driverID) {
			out = append(out, cloneCarpool(cp))
		}
	}
	sortCarpools(out)
	return out, nil
}

func sortCarpools(carpools []model.Carpool) {
	sort.Slice(carpools, func(i, j int) bool {
		if !carpools[i].Date.Equal(carpools[j].Date) {
			return carpools[i].Date.Before(carpools[j].Date)
		}
		return carpools[i].Time < carpools[j].Time
	})
}

type fakeFareStore struct {
	places  []model.Place
	entries map[uuid.UUID]model.FareEntry
}

func newFakeFareStore() *fakeFareStore {
	return &fakeFareStore{entries: make(map[uuid.UUID]model.FareEntry)}
}

func (s *fakeFareStore) add(entry model.FareEntry) model.FareEntry {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	s.entries[entry.ID] = entry
	return entry
}

func (s *fakeFareStore) ListPlaces(_ context.Context) ([]model.Place, error) {
	return s.places, nil
}

func (s *fakeFareStore) ListFareEntries(_ context.Context) ([]model.FareEntry, error) {
	out := make([]model.FareEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Departure != out[j].Departure {
			return out[i].Departure < out[j].Departure
		}
		return out[i].Arrival < out[j].Arrival
	})
	return out, nil
}

func (s *fakeFareStore) GetFareEntry(_ context.Context, id uuid.UUID) (*model.FareEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &entry, nil
}

type fakeReviewStore struct {
	reviews map[uuid.UUID]model.Review
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: make(map[uuid.UUID]model.Review)}
}

func (s *fakeReviewStore) Create(_ context.Context, review model.Review) (*model.Review, error) {
	review.ID = uuid.New()
	s.reviews[review.ID] = review
	return &review, nil
}

func (s *fakeReviewStore) GetByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	review, ok := s.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &review, nil
}

func (s *fakeReviewStore) Update(_ context.Context, id uuid.UUID, score int, content string) (*model.Review, error) {
	review, ok := s.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	review.Score = score
	review.Content = strings.TrimSpace(content)
	s.reviews[id] = review
	return &review, nil
}

func (s *fakeReviewStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.reviews[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.reviews, id)
	return nil
}

func (s *fakeReviewStore) ListForDriver(_ context.Context, driverID uuid.UUID) ([]model.Review, error) {
	var out []model.Review
	for _, review := range s.reviews {
		if review.RateeID == driverID {
			out = append(out, review)
		}
	}
	return out, nil
}

func (s *fakeReviewStore) Exists(_ context.Context, criticID, carpoolID uuid.UUID) (bool, error) {
	for _, review := range s.reviews {
		if review.CriticID == criticID && review.CarpoolID == carpoolID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeReviewStore) DriverScore(_ context.Context, driverID uuid.UUID) (*int, error) {
	var sum, count int
	for _, review := range s.reviews {
		if review.RateeID == driverID {
			sum += review.Score
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	score := model.RoundHalfUp(float64(sum) / float64(count))
	return &score, nil
}
