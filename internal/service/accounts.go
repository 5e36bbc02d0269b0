package service

import "payin-bridge/internal/models"

// SelectAccount picks the merchant account a payin should be attributed to.
// It scans in gateway order and returns the first ACTIVE, API-enabled
// account. When none qualifies it falls back to the first account regardless
// of status: a best guess is preferred over failing outright when the
// provider's account metadata is incomplete. Returns false only when the
// list is empty.
func SelectAccount(accounts []models.MerchantAccount) (string, bool) {
	if len(accounts) == 0 {
		return "", false
	}

	for _, account := range accounts {
		if account.Status == models.AccountStatusActive && account.IsAPIEnabled {
			return account.ID, true
		}
	}

	return accounts[0].ID, true
}
