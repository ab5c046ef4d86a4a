package http

import (
	"time"

	"github.com/linchh/campus-carpool/internal/model"
	"github.com/linchh/campus-carpool/internal/service"
)

type vehicleView struct {
	Capacity int    `json:"capacity"`
	Plate    string `json:"plate"`
	Class    string `json:"class"`
}

type principalView struct {
	ID         string       `json:"id"`
	Username   string       `json:"username"`
	Role       string       `json:"role"`
	Name       string       `json:"name"`
	Sex        string       `json:"sex"`
	Phone      string       `json:"phone"`
	Company    string       `json:"company,omitempty"`
	CertCode   string       `json:"cert_code,omitempty"`
	CertExpiry *string      `json:"cert_expiry,omitempty"`
	Vehicle    *vehicleView `json:"vehicle,omitempty"`
}

type passengerView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type carpoolDriverView struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Vehicle  vehicleView `json:"vehicle"`
}

type carpoolView struct {
	ID              string             `json:"id"`
	Date            string             `json:"date"`
	Time            string             `json:"time"`
	Departure       string             `json:"departure"`
	Arrival         string             `json:"arrival"`
	Fare            int                `json:"fare"`
	AverageFare     *int               `json:"average_fare"`
	LowerPassengers int                `json:"lower_passengers"`
	Status          string             `json:"status"`
	HasDriver       bool               `json:"has_driver"`
	HasVacancy      bool               `json:"has_vacancy"`
	Driver          *carpoolDriverView `json:"driver,omitempty"`
	Passengers      []passengerView    `json:"passengers"`
}

type placeView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type fareEntryView struct {
	ID        string `json:"id"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Fare      int    `json:"fare"`
}

type reviewView struct {
	ID        string `json:"id"`
	CarpoolID string `json:"carpool_id"`
	Critic    string `json:"critic"`
	Score     int    `json:"score"`
	Content   string `json:"content"`
	Time      string `json:"time"`
}

type driverSummaryView struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Name        string      `json:"name"`
	Company     string      `json:"company,omitempty"`
	Vehicle     vehicleView `json:"vehicle"`
	Score       *int        `json:"score"`
	ReviewCount int64       `json:"review_count"`
}

type driverReviewsView struct {
	Driver  principalView `json:"driver"`
	Score   *int          `json:"score"`
	Reviews []reviewView  `json:"reviews"`
}

func toVehicleView(v model.Vehicle) vehicleView {
	return vehicleView{Capacity: v.Capacity, Plate: v.Plate, Class: string(v.Class)}
}

func toPrincipalView(p model.Principal) principalView {
	view := principalView{
		ID:       p.ID.String(),
		Username: p.Username,
		Role:     string(p.Role),
		Name:     p.Profile.Name,
		Sex:      string(p.Profile.Sex),
		Phone:    p.Profile.Phone,
		Company:  p.Profile.Company,
		CertCode: p.Profile.CertCode,
	}
	if p.Profile.CertExpiry != nil {
		formatted := p.Profile.CertExpiry.Format("2006-01-02")
		view.CertExpiry = &formatted
	}
	if p.Vehicle != nil {
		vehicle := toVehicleView(*p.Vehicle)
		view.Vehicle = &vehicle
	}
	return view
}

func toCarpoolView(cp model.Carpool) carpoolView {
	view := carpoolView{
		ID:              cp.ID.String(),
		Date:            cp.Date.Format("2006-01-02"),
		Time:            cp.Time,
		Departure:       cp.FareEntry.Departure,
		Arrival:         cp.FareEntry.Arrival,
		Fare:            cp.FareEntry.Fare,
		AverageFare:     cp.AverageFare(),
		LowerPassengers: cp.LowerPassengers,
		Status:          string(cp.Status),
		HasDriver:       cp.HasDriver(),
		HasVacancy:      cp.HasVacancy(),
		Passengers:      make([]passengerView, 0, len(cp.Passengers)),
	}
	if cp.Driver != nil {
		view.Driver = &carpoolDriverView{
			ID:       cp.Driver.ID.String(),
			Username: cp.Driver.Username,
			Name:     cp.Driver.Name,
			Vehicle:  toVehicleView(cp.Driver.Vehicle),
		}
	}
	for _, p := range cp.Passengers {
		view.Passengers = append(view.Passengers, passengerView{
			ID:       p.ID.String(),
			Username: p.Username,
			Name:     p.Name,
		})
	}
	return view
}

func toCarpoolViews(carpools []model.Carpool) []carpoolView {
	views := make([]carpoolView, 0, len(carpools))
	for _, cp := range carpools {
		views = append(views, toCarpoolView(cp))
	}
	return views
}

func toReviewView(r model.Review) reviewView {
	return reviewView{
		ID:        r.ID.String(),
		CarpoolID: r.CarpoolID.String(),
		Critic:    r.CriticName,
		Score:     r.Score,
		Content:   r.Content,
		Time:      r.Time.Format(time.RFC3339),
	}
}

func toDriverSummaryView(d model.DriverSummary) driverSummaryView {
	return driverSummaryView{
		ID:          d.ID.String(),
		Username:    d.Username,
		Name:        d.Name,
		Company:     d.Company,
		Vehicle:     toVehicleView(d.Vehicle),
		Score:       d.Score,
		ReviewCount: d.ReviewCount,
	}
}

func toDriverReviewsView(dr service.DriverReviews) driverReviewsView {
	view := driverReviewsView{
		Driver:  toPrincipalView(dr.Driver),
		Score:   dr.Score,
		Reviews: make([]reviewView, 0, len(dr.Reviews)),
	}
	for _, r := range dr.Reviews {
		view.Reviews = append(view.Reviews, toReviewView(r))
	}
	return view
}
