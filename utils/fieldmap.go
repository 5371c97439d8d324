package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Key-precedence tables for occupation records coming from backends whose
// field naming is not contractually fixed (the mock and the real PMS disagree,
// and some deployments localize field names). For each logical field the first
// key present in the record wins; the order below is the contract and is
// covered by tests.
var (
	OccupationIDKeys = []string{"id", "occupationId", "occupation_id", "ocupacaoId", "ocupacao_id"}
	RoomIDKeys       = []string{"roomId", "room_id", "quartoId", "quarto_id"}
	StatusKeys       = []string{"status", "situacao", "state"}
	ActiveFlagKeys   = []string{"isActive", "active", "ativo"}

	ResponsibleKeys = []string{"responsible", "responsibleName", "responsavel", "guestName", "guest_name", "name"}

	CheckInKeys = []string{"checkInDate", "check_in_date", "checkIn", "check_in", "checkinDate", "dataEntrada", "data_entrada", "startDate", "start_date"}
	// Actual close timestamps only; expectedCheckOut/endDate are set at
	// check-in and must not make an active record look closed.
	CheckOutKeys = []string{"checkedOutAt", "checked_out_at", "checkOutDate", "check_out_date", "checkOut", "check_out", "closedAt", "closed_at", "finalizedAt", "finalized_at", "dataSaida", "data_saida"}

	ExpectedCheckOutKeys = []string{"expectedCheckOut", "expected_check_out", "expectedCheckout", "previsaoSaida", "previsao_saida", "endDate", "end_date"}

	// The rate chain folds the fallback order (snapshot rate, then night rate,
	// then daily rate) into one precedence list.
	RoomRateKeys = []string{"roomRate", "room_rate", "rate", "valorDiaria", "valor_diaria", "nightRate", "night_rate", "dailyRate", "daily_rate", "price"}

	ServiceChargeKeys = []string{"serviceCharge", "service_charge", "taxesAndFees", "taxes_and_fees", "taxaServico", "taxa_servico"}
	TotalKeys         = []string{"total", "totalAmount", "total_amount", "valorTotal", "valor_total", "grandTotal"}

	ConsumptionListKeys = []string{"consumptions", "consumedProducts", "consumed_products", "products", "consumos", "items"}
	ProductIDKeys       = []string{"productId", "product_id", "produtoId", "produto_id", "id"}
	ProductNameKeys     = []string{"name", "productName", "product_name", "produto"}
	QuantityKeys        = []string{"quantity", "qty", "quantidade"}
	UnitPriceKeys       = []string{"unitPrice", "unit_price", "precoUnitario", "preco_unitario", "price"}
	TotalPriceKeys      = []string{"totalPrice", "total_price", "precoTotal", "preco_total", "total"}
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// StringField returns the first non-empty string value under any of the keys.
func StringField(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
			continue
		}
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
	return ""
}

// FloatField returns the first numeric value under any of the keys. Numbers
// arriving as strings are parsed too.
func FloatField(m map[string]interface{}, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// IntField is FloatField truncated to int.
func IntField(m map[string]interface{}, keys ...string) (int, bool) {
	f, ok := FloatField(m, keys...)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// BoolField returns the first boolean value under any of the keys, accepting
// "true"/"false" strings as well.
func BoolField(m map[string]interface{}, keys ...string) (bool, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b, true
		case string:
			if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
				return parsed, true
			}
		}
	}
	return false, false
}

// TimeField parses the first present key against the accepted layouts.
// Unparsable values yield nil rather than an error: timestamps are advisory in
// most record shapes and the callers degrade gracefully.
func TimeField(m map[string]interface{}, keys ...string) *time.Time {
	raw := StringField(m, keys...)
	if raw == "" {
		return nil
	}
	return ParseTime(raw)
}

// ParseTime tries the accepted layouts in order.
func ParseTime(raw string) *time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// ListField returns the first value under any of the keys that is a list of
// objects.
func ListField(m map[string]interface{}, keys ...string) []map[string]interface{} {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		items, ok := v.([]interface{})
		if !ok {
			continue
		}
		out := make([]map[string]interface{}, 0, len(items))
		for _, item := range items {
			if obj, ok := item.(map[string]interface{}); ok {
				out = append(out, obj)
			}
		}
		return out
	}
	return nil
}

// HasAny reports whether any of the keys is present with a non-empty value.
func HasAny(m map[string]interface{}, keys ...string) bool {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return true
	}
	return false
}
