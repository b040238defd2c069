package securepay

// DirectEntry holds the bank account for direct entry debits and credits.
type DirectEntry struct {
	bsbNumber     string
	accountNumber string
	accountName   string
	creditFlag    bool
}

func (d *DirectEntry) BSBNumber() string {
	return d.bsbNumber
}

// SetBSBNumber sets the BSB, which must be exactly 6 digits.
func (d *DirectEntry) SetBSBNumber(bsb string) error {
	if err := ValidateBSB(bsb); err != nil {
		return err
	}
	d.bsbNumber = bsb
	return nil
}

func (d *DirectEntry) AccountNumber() string {
	return d.accountNumber
}

// SetAccountNumber sets the account number, which must be 1 to 9 digits.
func (d *DirectEntry) SetAccountNumber(accountNumber string) error {
	if err := ValidateAccountNumber(accountNumber); err != nil {
		return err
	}
	d.accountNumber = accountNumber
	return nil
}

func (d *DirectEntry) AccountName() string {
	return d.accountName
}

// SetAccountName sets the account name, truncated to 32 characters.
func (d *DirectEntry) SetAccountName(name string) {
	d.accountName = ProperAccountName(name)
}

// CreditFlag reports whether funds move into the account (true) or out of it.
func (d *DirectEntry) CreditFlag() bool {
	return d.creditFlag
}

func (d *DirectEntry) SetCreditFlag(credit bool) {
	d.creditFlag = credit
}

// ClearBankAccount unsets BSB, account number and account name.
func (d *DirectEntry) ClearBankAccount() {
	d.bsbNumber, d.accountNumber, d.accountName = "", "", ""
}

// directEntryInfo returns the DirectEntryInfo group, or false when no bank
// account field has been set.
func (d *DirectEntry) directEntryInfo() (Node, bool) {
	if d.bsbNumber == "" && d.accountNumber == "" && d.accountName == "" {
		return Node{}, false
	}
	return group("DirectEntryInfo",
		leaf("bsbNumber", d.bsbNumber),
		leaf("accountNumber", d.accountNumber),
		leaf("accountName", d.accountName),
		leaf("creditFlag", yesNo(d.creditFlag)),
	), true
}

func (d *DirectEntry) bankAccountComplete() bool {
	return d.census() == 3
}

// census counts how many of account name, account number and BSB are set.
func (d *DirectEntry) census() int {
	n := 0
	for _, v := range []string{d.accountName, d.accountNumber, d.bsbNumber} {
		if v != "" {
			n++
		}
	}
	return n
}
