package accounts

import "github.com/chiefstaker/chiefstaker/chief"

// Account for marshal account
type Account struct {
	Balance    uint64        `json:"balance"`
	Owner      chief.Address `json:"owner"`
	DataLen    int           `json:"dataLen"`
	RentExempt bool          `json:"rentExempt"`
}

// TokenAccount is the associated token account of an owner for a mint.
type TokenAccount struct {
	Address chief.Address `json:"address"`
	Mint    chief.Address `json:"mint"`
	Owner   chief.Address `json:"owner"`
	Amount  uint64        `json:"amount"`
}

// Transfer moves lamports from the account in the path.
type Transfer struct {
	To     chief.Address `json:"to"`
	Amount uint64        `json:"amount"`
}
