package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"
)

const maxAddressComponentLength = 200

// Address is a postal address value object. Every component is optional.
// It is immutable; all operations return new Address instances.
type Address struct {
	street  string
	city    string
	state   string
	country string
	zipCode string
}

// NewAddress creates an Address, trimming every component
func NewAddress(street, city, state, country, zipCode string) (Address, error) {
	addr := Address{
		street:  strings.TrimSpace(street),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		country: strings.TrimSpace(country),
		zipCode: strings.TrimSpace(zipCode),
	}
	for name, v := range addr.components() {
		if len(v) > maxAddressComponentLength {
			return Address{}, fmt.Errorf("%s cannot exceed %d characters", name, maxAddressComponentLength)
		}
	}
	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(street, city, state, country, zipCode string) Address {
	addr, err := NewAddress(street, city, state, country, zipCode)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an address with no components set
func EmptyAddress() Address {
	return Address{}
}

// RestoreAddress rebuilds an address from trusted storage without validation
func RestoreAddress(street, city, state, country, zipCode string) Address {
	return Address{street: street, city: city, state: state, country: country, zipCode: zipCode}
}

// Street returns the street line
func (a Address) Street() string { return a.street }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the state or region
func (a Address) State() string { return a.state }

// Country returns the country
func (a Address) Country() string { return a.country }

// ZipCode returns the postal code
func (a Address) ZipCode() string { return a.zipCode }

// IsEmpty returns true if no component is set
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.state == "" && a.country == "" && a.zipCode == ""
}

// WithFallback fills each empty component of a from the same component of
// fallback. Components are resolved independently, so a supplied city with no
// street keeps the city and inherits the street.
func (a Address) WithFallback(fallback Address) Address {
	return Address{
		street:  firstNonEmpty(a.street, fallback.street),
		city:    firstNonEmpty(a.city, fallback.city),
		state:   firstNonEmpty(a.state, fallback.state),
		country: firstNonEmpty(a.country, fallback.country),
		zipCode: firstNonEmpty(a.zipCode, fallback.zipCode),
	}
}

// String returns the address on one line
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, v := range []string{a.street, a.city, a.state, a.zipCode, a.country} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals compares all components
func (a Address) Equals(other Address) bool {
	return a == other
}

func (a Address) components() map[string]string {
	return map[string]string{
		"street":  a.street,
		"city":    a.city,
		"state":   a.state,
		"country": a.country,
		"zipCode": a.zipCode,
	}
}

type addressJSON struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:  a.street,
		City:    a.city,
		State:   a.state,
		Country: a.country,
		ZipCode: a.zipCode,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var raw addressJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	addr, err := NewAddress(raw.Street, raw.City, raw.State, raw.Country, raw.ZipCode)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
