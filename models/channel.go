// Package models contains domain entities for the bakery distribution platform
package models

// SalesChannel is the commercial context an order is priced in.
// Each channel reads its own base price column from the catalog.
type SalesChannel string

const (
	ChannelCustomer  SalesChannel = "musteri"
	ChannelSubDealer SalesChannel = "alt_bayi"
)

func (c SalesChannel) IsValid() bool {
	return c == ChannelCustomer || c == ChannelSubDealer
}

func (c SalesChannel) String() string {
	return string(c)
}
