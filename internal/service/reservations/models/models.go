package models

import (
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// StatusNone статус "нет заявки" в ответе MyResult
const StatusNone = "none"

// Request модели

// CancelRequest запрос на отмену бронирования
type CancelRequest struct {
	Date     time.Time `json:"date"`
	TimeSlot string    `json:"timeSlot"`
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID             int64     `json:"id"`
	RequesterName  string    `json:"requesterName"`
	SubscriptionID *string   `json:"subscriptionId,omitempty"`
	AccountKind    string    `json:"accountKind"`
	IsSubscriber   bool      `json:"isSubscriber"`
	Date           string    `json:"date"`     // "2026-10-20"
	TimeSlot       string    `json:"timeSlot"` // "09:00-11:00"
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// DateSummaryResponse количество активных бронирований на дату
type DateSummaryResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SummaryResponse сводка по датам
type SummaryResponse struct {
	Dates []DateSummaryResponse `json:"dates"`
}

// LotteryResultsResponse итоги лотереи: подтвержденные и отклоненные
type LotteryResultsResponse struct {
	Confirmed []ReservationResponse `json:"confirmed"`
	Rejected  []ReservationResponse `json:"rejected"`
}

// MyResultResponse статус заявителя на дату
type MyResultResponse struct {
	Date     string  `json:"date"`
	Status   string  `json:"status"` // pending | confirmed | rejected | none
	TimeSlot *string `json:"timeSlot,omitempty"`
}

// LotteryRunResponse запись журнала запусков
type LotteryRunResponse struct {
	ID         string                 `json:"id"`
	ExecutedAt time.Time              `json:"executedAt"`
	TargetDate string                 `json:"targetDate"`
	Trigger    string                 `json:"trigger"`
	Results    []domain.LotteryResult `json:"results"`
}

// RunListResponse ответ со списком запусков
type RunListResponse struct {
	LastScheduledRun *string              `json:"lastScheduledRun,omitempty"` // дата маркера плановой лотереи
	Runs             []LotteryRunResponse `json:"runs"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:             r.ID,
		RequesterName:  r.RequesterName,
		SubscriptionID: r.SubscriptionID,
		AccountKind:    r.AccountKind,
		IsSubscriber:   r.IsSubscriber,
		Date:           r.Date.Format(domain.DateFormat),
		TimeSlot:       r.TimeSlot,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}
	for _, r := range reservations {
		resp.Reservations = append(resp.Reservations, FromDomainReservation(r))
	}
	return resp
}

// FromDomainRun конвертирует запись журнала в DTO
func FromDomainRun(run *domain.LotteryRun) LotteryRunResponse {
	results := run.Results
	if results == nil {
		results = []domain.LotteryResult{}
	}
	return LotteryRunResponse{
		ID:         run.ID,
		ExecutedAt: run.ExecutedAt,
		TargetDate: run.TargetDate.Format(domain.DateFormat),
		Trigger:    string(run.Trigger),
		Results:    results,
	}
}
