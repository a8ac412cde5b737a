package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CustomerAccount struct {
	ID                    string      `json:"id"`
	UserID                null.String `json:"user_id"`
	FullName              string      `json:"full_name"`
	Email                 null.String `json:"email"`
	Phone                 null.String `json:"phone"`
	PrimaryAddressID      null.String `json:"primary_address_id"`
	WhatsAppNotifications bool        `json:"whatsapp_notifications"`
	EmailNotifications    bool        `json:"email_notifications"`
	SMSNotifications      bool        `json:"sms_notifications"`
	IsActive              bool        `json:"is_active"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// CustomerAccountPatch holds the fields a customer may change on their own
// profile. Nil fields are left as they are.
type CustomerAccountPatch struct {
	FullName              *string
	Phone                 *string
	PrimaryAddressID      *string
	WhatsAppNotifications *bool
	EmailNotifications    *bool
	SMSNotifications      *bool
}

const AddressTypeDelivery = "delivery"

type CustomerAddress struct {
	ID            string      `json:"id"`
	CustomerID    string      `json:"customer_id"`
	AddressType   string      `json:"address_type"`
	StreetAddress string      `json:"street_address"`
	City          string      `json:"city"`
	StateProvince null.String `json:"state_province"`
	PostalCode    null.String `json:"postal_code"`
	Country       string      `json:"country"`
	IsDefault     bool        `json:"is_default"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type CustomerAddressPatch struct {
	AddressType   *string
	StreetAddress *string
	City          *string
	StateProvince *string
	PostalCode    *string
	Country       *string
	IsDefault     *bool
}

type StaffUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}
