package model

import "fmt"

// Category is the namespace a check belongs to.
type Category string

const (
	// CategoryPrivacy groups third-party, cookie, analytics and server location checks.
	CategoryPrivacy Category = "privacy"
	// CategorySecurity groups information leak and security header checks.
	CategorySecurity Category = "security"
	// CategorySSL groups the web server's HTTPS, protocol and vulnerability checks.
	CategorySSL Category = "ssl"
	// CategoryMX groups the mail server's TLS, protocol and vulnerability checks.
	CategoryMX Category = "mx"
)

// Categories returns every category in report order.
func Categories() []Category {
	return []Category{CategoryPrivacy, CategorySecurity, CategorySSL, CategoryMX}
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q: must be one of privacy, security, ssl, mx", s)
}

// String returns the category name.
func (c Category) String() string {
	return string(c)
}
