package save

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemIDEncoding(t *testing.T) {
	tests := []struct {
		id   ItemID
		text string
	}{
		{ItemID{Type: "leather_boots", Affixes: []int{12}}, "leather_boots:12"},
		{ItemID{Type: "vampire_blade", Affixes: []int{15, -2}}, "vampire_blade:15:-2"},
		{ItemID{Type: "plain_ring"}, "plain_ring"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.id.String())
			parsed, err := ParseItemID(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.id, parsed)
		})
	}
}

func TestParseItemIDErrors(t *testing.T) {
	for _, s := range []string{"", ":5", "boots:x", "boots:1:"} {
		_, err := ParseItemID(s)
		assert.Error(t, err, "строка %q должна быть отклонена", s)
	}
}

func TestValidate(t *testing.T) {
	valid := func() SaveData {
		return SaveData{
			Version:         SchemaVersion,
			Level:           3,
			Items:           []string{"leather_boots:10", ""},
			Consumables:     [][]string{{"health_potion", "health_potion"}, nil},
			ActiveQuests:    []string{"rats"},
			CompletedQuests: []string{"wolves"},
		}
	}

	d := valid()
	assert.NoError(t, d.Validate())

	tests := []struct {
		name   string
		mutate func(d *SaveData)
	}{
		{"версия", func(d *SaveData) { d.Version = 99 }},
		{"уровень", func(d *SaveData) { d.Level = 0 }},
		{"деньги", func(d *SaveData) { d.Money = -1 }},
		{"предмет", func(d *SaveData) { d.Items[0] = "boots:abc" }},
		{"смешанный слот", func(d *SaveData) { d.Consumables[0] = []string{"health_potion", "mana_potion"} }},
		{"квест в двух списках", func(d *SaveData) { d.CompletedQuests = append(d.CompletedQuests, "rats") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(&d)
			assert.Error(t, d.Validate())
		})
	}
}
