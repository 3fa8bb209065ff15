package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"medstock/m/internal/apperr"
)

func validMedication() *Medication {
	return &Medication{
		PharmacyID:   1,
		BrandName:    "Panadol",
		GenericName:  "Paracetamol",
		DosageForm:   DosageTablet,
		Strength:     "500mg",
		Manufacturer: "GSK",
		CategoryID:   1,
		ReorderPoint: 10,
	}
}

func TestMedication_Validate(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Medication)
		field string
	}{
		{"valid", func(*Medication) {}, ""},
		{"missing brand", func(m *Medication) { m.BrandName = "  " }, "brand_name"},
		{"missing generic", func(m *Medication) { m.GenericName = "" }, "generic_name"},
		{"unknown dosage form", func(m *Medication) { m.DosageForm = "powder" }, "dosage_form"},
		{"missing strength", func(m *Medication) { m.Strength = "" }, "strength"},
		{"missing manufacturer", func(m *Medication) { m.Manufacturer = "" }, "manufacturer"},
		{"missing category", func(m *Medication) { m.CategoryID = 0 }, "category_id"},
		{"negative reorder point", func(m *Medication) { m.ReorderPoint = -1 }, "reorder_point"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMedication()
			tt.mut(m)
			err := m.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *apperr.ValidationError
			if assert.ErrorAs(t, err, &ve) {
				assert.Equal(t, tt.field, ve.Field)
			}
		})
	}
}

func TestDosageForm_Valid(t *testing.T) {
	for _, f := range DosageForms {
		assert.True(t, f.Valid(), string(f))
	}
	assert.False(t, DosageForm("Tablet").Valid())
	assert.False(t, DosageForm("").Valid())
}

func TestKilometers_JSON(t *testing.T) {
	out, err := json.Marshal(struct {
		D Kilometers `json:"d"`
	}{Kilometers(math.NaN())})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"d":null}`, string(out))

	out, err = json.Marshal(struct {
		D Kilometers `json:"d"`
	}{Kilometers(12.3456)})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"d":12.346}`, string(out))
}
