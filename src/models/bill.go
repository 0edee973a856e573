package models

type BillType string

const (
	BillTypeNew            BillType = "NEW"
	BillTypeCreditsPayment BillType = "CREDITS_PAYMENT"
	BillTypePartialReturn  BillType = "PARTIAL_RETURN"
	BillTypeFullReturn     BillType = "FULL_RETURN"
)

type BillStatus string

const (
	BillStatusComplete  BillStatus = "COMPLETE"
	BillStatusCancelled BillStatus = "CANCELLED"
	BillStatusReturned  BillStatus = "RETURNED"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentOnline PaymentMethod = "ONLINE"
	PaymentCredit PaymentMethod = "CREDIT"
	PaymentCard   PaymentMethod = "CARD"
)

// Bill is the request shape for creating, returning, and crediting bills.
type Bill struct {
	BillNumber        string        `json:"billNumber,omitempty"`
	Customer          *Customer     `json:"customer,omitempty"`
	BillItems         []BillItem    `json:"billItems"`
	PaymentMethod     PaymentMethod `json:"paymentMethod,omitempty"`
	BillDate          string        `json:"billDate,omitempty"`
	BillTotalAmount   float64       `json:"billTotalAmount,omitempty"`
	BillTotalDiscount float64       `json:"billTotalDiscount,omitempty"`
	BillStatus        BillStatus    `json:"billStatus,omitempty"`
}

type BillItem struct {
	BillItemProduct         *Product `json:"billItemProduct"`
	BillItemQuantity        int      `json:"billItemQuantity"`
	PricePerUnit            float64  `json:"pricePerUnit,omitempty"`
	BillItemTotalPrice      float64  `json:"billItemTotalPrice,omitempty"`
	BillItemDiscountPerUnit float64  `json:"billItemDiscountPerUnit,omitempty"`
}

// BillResponse is what the backend returns for any bill lookup.
type BillResponse struct {
	BillNumber         string             `json:"billNumber"`
	BillDate           string             `json:"billDate"`
	CustomerName       string             `json:"customerName"`
	CustomerEmail      string             `json:"customerEmail"`
	CustomerPhone      string             `json:"customerPhone"`
	BillType           BillType           `json:"billType"`
	BillItems          []BillItemResponse `json:"billItems"`
	PaymentMethod      PaymentMethod      `json:"paymentMethod"`
	TotalAmount        float64            `json:"totalAmount"`
	TotalDiscount      float64            `json:"totalDiscount"`
	BillStatus         BillStatus         `json:"billStatus"`
	OriginalBillNumber string             `json:"originalBillNumber,omitempty"`
}

type BillItemResponse struct {
	ProductID            int64   `json:"productId"`
	ProductName          string  `json:"productName"`
	BillItemPricePerUnit float64 `json:"billItemPricePerUnit"`
	BillItemQuantity     int     `json:"billItemQuantity"`
	DiscountPerUnit      float64 `json:"discountPerUnit"`
	TotalPrice           float64 `json:"totalPrice"`
}

func (b *BillResponse) IsReturn() bool {
	return b.BillType == BillTypePartialReturn || b.BillType == BillTypeFullReturn
}
