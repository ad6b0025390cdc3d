package clients

type UpsertRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone" validate:"omitempty,phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"address"`
}
