package models

// WalletBalance — баланс кошелька ноды в сатоши.
type WalletBalance struct {
	Confirmed   int64 `json:"confirmed"`
	Unconfirmed int64 `json:"unconfirmed"`
}

// SpendRequest — запрос на отправку средств из кошелька.
type SpendRequest struct {
	Address  string `json:"address"`
	Amount   int64  `json:"amount"`
	FeeLevel string `json:"feeLevel"`
	Memo     string `json:"memo,omitempty"`
}

// SpendResult — результат отправки средств.
type SpendResult struct {
	Txid               string `json:"txid"`
	Amount             int64  `json:"amount"`
	ConfirmedBalance   int64  `json:"confirmedBalance"`
	UnconfirmedBalance int64  `json:"unconfirmedBalance"`
	Timestamp          string `json:"timestamp"`
}
