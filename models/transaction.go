package models

import (
	"encoding/json"
	"time"
)

type TransactionStatus string

const (
	TransactionSuccessful TransactionStatus = "SUCCESSFUL"
	TransactionPending    TransactionStatus = "PENDING"
	TransactionFailed     TransactionStatus = "FAILED"
	TransactionReversed   TransactionStatus = "REVERSED"
	TransactionProcessing TransactionStatus = "PROCESSING"
)

func (s TransactionStatus) IsFinal() bool {
	return s == TransactionSuccessful || s == TransactionFailed || s == TransactionReversed
}

// Party is the sender or recipient side of a transaction.
type Party struct {
	ID            int    `json:"id,omitempty"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

type Transaction struct {
	ID          int               `json:"id"`
	Reference   string            `json:"reference"`
	Type        string            `json:"type"`
	Category    string            `json:"category,omitempty"`
	Amount      float64           `json:"amount"`
	Fee         float64           `json:"fee"`
	Currency    string            `json:"currency,omitempty"`
	Status      TransactionStatus `json:"status"`
	Description string            `json:"description,omitempty"`
	Sender      *Party            `json:"sender"`
	Recipient   *Party            `json:"recipient"`
	User        *User             `json:"user,omitempty"`
	Payload     json.RawMessage   `json:"payload,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type TransactionStats struct {
	TotalTransactions int     `json:"total_transactions"`
	TotalVolume       float64 `json:"total_volume"`
	Successful        int     `json:"successful"`
	Pending           int     `json:"pending"`
	Failed            int     `json:"failed"`
	TodayVolume       float64 `json:"today_volume"`
}

// ServiceKind names one of the bill-payment services.
type ServiceKind string

const (
	ServiceAirtime     ServiceKind = "airtime"
	ServiceData        ServiceKind = "data"
	ServiceElectricity ServiceKind = "electricity"
	ServiceTV          ServiceKind = "tv"
)

func ServiceKinds() []ServiceKind {
	return []ServiceKind{ServiceAirtime, ServiceData, ServiceElectricity, ServiceTV}
}

func (k ServiceKind) IsValid() bool {
	for _, s := range ServiceKinds() {
		if s == k {
			return true
		}
	}
	return false
}

// ServiceTransaction carries the fields shared by every service specialisation.
type ServiceTransaction struct {
	ID        int               `json:"id"`
	Reference string            `json:"reference"`
	Amount    float64           `json:"amount"`
	Status    TransactionStatus `json:"status"`
	User      *User             `json:"user,omitempty"`
	Payload   json.RawMessage   `json:"payload,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type AirtimeTransaction struct {
	ServiceTransaction
	Network string `json:"network"`
	Phone   string `json:"phone"`
}

type DataTransaction struct {
	ServiceTransaction
	Network  string `json:"network"`
	Phone    string `json:"phone"`
	PlanName string `json:"plan_name"`
	PlanCode string `json:"plan_code,omitempty"`
}

type ElectricityTransaction struct {
	ServiceTransaction
	Disco       string  `json:"disco"`
	MeterNumber string  `json:"meter_number"`
	MeterType   string  `json:"meter_type"`
	Token       *string `json:"token"`
	Units       string  `json:"units,omitempty"`
}

type TVTransaction struct {
	ServiceTransaction
	Provider        string `json:"provider"`
	SmartcardNumber string `json:"smartcard_number"`
	Bouquet         string `json:"bouquet"`
}

type ServiceStats struct {
	Service           ServiceKind `json:"service"`
	TotalTransactions int         `json:"total_transactions"`
	TotalVolume       float64     `json:"total_volume"`
	Successful        int         `json:"successful"`
	Pending           int         `json:"pending"`
	Failed            int         `json:"failed"`
}

type Network struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Logo     string `json:"logo,omitempty"`
	IsActive bool   `json:"is_active"`
}

type DataPlan struct {
	ID       int     `json:"id"`
	Network  string  `json:"network"`
	Name     string  `json:"name"`
	Code     string  `json:"code"`
	Amount   float64 `json:"amount"`
	Validity string  `json:"validity"`
}

type Disco struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type TVProvider struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type DashboardStats struct {
	Users        UserStats        `json:"users"`
	Transactions TransactionStats `json:"transactions"`
	Revenue      float64          `json:"revenue"`
	Services     []ServiceStats   `json:"services"`
}
