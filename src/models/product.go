package models

type Product struct {
	ProductID          int64   `json:"productId,omitempty"`
	ProductName        string  `json:"productName"`
	ProductDescription string  `json:"productDescription,omitempty"`
	PricePerItem       float64 `json:"pricePerItem"`
	ProductTotalPrice  float64 `json:"productTotalPrice,omitempty"`
	ProductQuantity    int     `json:"productQuantity"`
	ProductCategory    string  `json:"productCategory,omitempty"`
	ProductCode        string  `json:"productCode,omitempty"`
}
