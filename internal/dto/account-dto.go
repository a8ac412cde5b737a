package dto

type CreateAccountDTO struct {
	FullName              string `json:"fullName" validate:"required,max=255"`
	Email                 string `json:"email" validate:"omitempty,email"`
	Phone                 string `json:"phone" validate:"omitempty,max=50"`
	WhatsAppNotifications *bool  `json:"whatsappNotifications"`
	EmailNotifications    *bool  `json:"emailNotifications"`
	SMSNotifications      *bool  `json:"smsNotifications"`
}

// UpdateAccountDTO uses the column names, matching what get_account returns.
type UpdateAccountDTO struct {
	FullName              *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Phone                 *string `json:"phone" validate:"omitempty,max=50"`
	PrimaryAddressID      *string `json:"primary_address_id" validate:"omitempty,uuid"`
	WhatsAppNotifications *bool   `json:"whatsapp_notifications"`
	EmailNotifications    *bool   `json:"email_notifications"`
	SMSNotifications      *bool   `json:"sms_notifications"`
}

// AddressDTO serves add_address and update_address. On update only the
// fields present are changed.
type AddressDTO struct {
	AddressID     string  `json:"addressId" validate:"omitempty,uuid"`
	AddressType   *string `json:"addressType" validate:"omitempty,max=50"`
	StreetAddress *string `json:"streetAddress" validate:"omitempty,min=1"`
	City          *string `json:"city" validate:"omitempty,min=1,max=100"`
	StateProvince *string `json:"stateProvince" validate:"omitempty,max=100"`
	PostalCode    *string `json:"postalCode" validate:"omitempty,max=20"`
	Country       *string `json:"country" validate:"omitempty,min=1,max=100"`
	IsDefault     *bool   `json:"isDefault"`
}

type DeleteAddressResultDTO struct {
	Success bool `json:"success"`
}
