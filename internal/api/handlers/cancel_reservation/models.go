package cancel_reservation

// CancelReservationResponse HTTP response model
type CancelReservationResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}
