package types

import (
	"time"

	"github.com/sparklegiftshop/gateway/pkg/enums"
)

// Settings is the store-wide singleton, editable only from the dashboard.
type Settings struct {
	StoreName      string `json:"store_name"`
	LogoURL        string `json:"logo_url,omitempty"`
	WhatsAppNumber string `json:"whatsapp_number,omitempty"`
	UPIID          string `json:"upi_id,omitempty"`
	QRCodeURL      string `json:"qr_code_url,omitempty"`
}

// AdminAccount is a dashboard team member. Password is write-only: it rides
// on create requests and never comes back from the backend.
type AdminAccount struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Password    string            `json:"password,omitempty"`
	AccessLevel enums.AccessLevel `json:"access_level"`
	CreatedAt   time.Time         `json:"created_at,omitempty"`
}

// Profile is the signed-in identity cached in the local store.
type Profile struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone,omitempty"`
	AccessLevel enums.AccessLevel `json:"access_level,omitempty"`
}
