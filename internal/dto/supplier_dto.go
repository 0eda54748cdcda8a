package dto

type SupplierRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=64"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Notes   *string `json:"notes" validate:"omitempty,max=5000"`
}

type SupplierResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}
