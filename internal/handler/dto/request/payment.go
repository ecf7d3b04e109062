package request

type InitiatePaymentRequest struct {
	Method string `json:"method" binding:"required,oneof=card bank_transfer wallet"`
}
