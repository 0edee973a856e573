package models

type Customer struct {
	CustomerID               int64   `json:"customerId,omitempty"`
	CustomerName             string  `json:"customerName"`
	CustomerEmail            string  `json:"customerEmail,omitempty"`
	CustomerContact          string  `json:"customerContact"`
	CustomerAddress          string  `json:"customerAddress,omitempty"`
	CustomerRegistrationDate string  `json:"customerRegistrationDate,omitempty"`
	CustomerCredits          float64 `json:"customerCredits"`
}
