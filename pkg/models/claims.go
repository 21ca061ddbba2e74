package models

import "github.com/shopspring/decimal"

// ClaimKey identifies where stock was already claimed by another open pick
// list. BatchNo is empty for untracked and serialized items.
type ClaimKey struct {
	Warehouse string
	BatchNo   string
}

// Claim is the quantity (and, for serialized items, the exact serial
// numbers) reserved by other open pick lists under one key.
type Claim struct {
	PickedQty decimal.Decimal
	SerialNos []string
}

type ItemClaims map[ClaimKey]Claim

func (c ItemClaims) TotalPicked() decimal.Decimal {
	total := decimal.Zero
	for _, claim := range c {
		total = total.Add(claim.PickedQty)
	}
	return total
}

func (c ItemClaims) HasSerialNo(serialNo string) bool {
	for _, claim := range c {
		for _, sn := range claim.SerialNos {
			if sn == serialNo {
				return true
			}
		}
	}
	return false
}
