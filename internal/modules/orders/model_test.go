package orders

import "testing"

func TestNormalizeRouteLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain label", "giga-north-1.19.26", "giga-north-1.19.26"},
		{"quoted label", `"giga-north-1.19.26"`, "giga-north-1.19.26"},
		{"quoted empty", `""`, ""},
		{"empty", "", ""},
		{"surrounding whitespace", `  "giga-south-2.01.04" `, "giga-south-2.01.04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRouteLabel(tt.in); got != tt.want {
				t.Errorf("NormalizeRouteLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRouteLabel(t *testing.T) {
	driver, zone := ParseRouteLabel(`"giga-north-1.19.26"`)
	if driver != "giga" || zone != "north" {
		t.Errorf("ParseRouteLabel = (%q, %q), want (giga, north)", driver, zone)
	}

	driver, zone = ParseRouteLabel("solo")
	if driver != "solo" || zone != "" {
		t.Errorf("ParseRouteLabel single segment = (%q, %q), want (solo, empty)", driver, zone)
	}
}

func TestFullName(t *testing.T) {
	o := Order{FirstName: "Ada", LastName: "Lovelace"}
	if got := o.FullName(); got != "Ada Lovelace" {
		t.Errorf("FullName = %q", got)
	}
	if got := (Order{FirstName: "Ada"}).FullName(); got != "Ada" {
		t.Errorf("FullName with empty last = %q", got)
	}
}
