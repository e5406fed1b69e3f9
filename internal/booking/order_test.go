package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerInfoValidate(t *testing.T) {
	tests := []struct {
		name    string
		info    CustomerInfo
		badKeys []string
	}{
		{
			name: "valid with phone",
			info: CustomerInfo{Name: "Linh Tran", Email: "linh@example.com", Phone: "0912345678"},
		},
		{
			name: "valid without phone",
			info: CustomerInfo{Name: "Linh Tran", Email: "linh@example.com"},
		},
		{
			name:    "name too short",
			info:    CustomerInfo{Name: "L", Email: "linh@example.com"},
			badKeys: []string{"customerName"},
		},
		{
			name:    "whitespace name",
			info:    CustomerInfo{Name: "  a  ", Email: "linh@example.com"},
			badKeys: []string{"customerName"},
		},
		{
			name:    "bad email shape",
			info:    CustomerInfo{Name: "Linh Tran", Email: "linh@example"},
			badKeys: []string{"customerEmail"},
		},
		{
			name:    "email with spaces",
			info:    CustomerInfo{Name: "Linh Tran", Email: "li nh@example.com"},
			badKeys: []string{"customerEmail"},
		},
		{
			name:    "phone too short",
			info:    CustomerInfo{Name: "Linh Tran", Email: "linh@example.com", Phone: "12345"},
			badKeys: []string{"customerPhone"},
		},
		{
			name:    "phone with letters",
			info:    CustomerInfo{Name: "Linh Tran", Email: "linh@example.com", Phone: "09123456ab"},
			badKeys: []string{"customerPhone"},
		},
		{
			name:    "everything wrong at once",
			info:    CustomerInfo{Name: "", Email: "nope", Phone: "1"},
			badKeys: []string{"customerName", "customerEmail", "customerPhone"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := tt.info.Validate()
			if len(tt.badKeys) == 0 {
				assert.Nil(t, fe)
				return
			}
			require.NotNil(t, fe)
			assert.Len(t, fe, len(tt.badKeys))
			for _, k := range tt.badKeys {
				assert.Contains(t, fe, k)
			}
		})
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	fe := FieldErrors{"customerEmail": "bad", "customerName": "bad"}
	assert.Equal(t, "invalid fields: customerEmail, customerName", fe.Error())
}

func TestParsePaymentMethod(t *testing.T) {
	for raw, want := range map[string]PaymentMethod{
		"card":     PaymentCard,
		"CARD":     PaymentCard,
		" banking": PaymentBankTransfer,
		"ewallet":  PaymentEWallet,
	} {
		got, err := ParsePaymentMethod(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	for _, raw := range []string{"", "cash", "paypal"} {
		_, err := ParsePaymentMethod(raw)
		assert.Error(t, err, raw)
	}
}
