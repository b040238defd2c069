package securepay

// Fraudguard holds the buyer profile used by FraudGuard screening.
//
// Setting any buyer field also switches fraud screening on for the owning
// transaction. The transaction is then routed to the anti-fraud endpoint and
// carries a BuyerInfo block.
type Fraudguard struct {
	useFraudguard   bool
	firstName       string
	lastName        string
	ipAddress       string
	zipCode         string
	town            string
	billingCountry  string
	deliveryCountry string
	emailAddress    string
}

// UsingFraudguard reports whether fraud screening is on.
func (f *Fraudguard) UsingFraudguard() bool {
	return f.useFraudguard
}

// SetUseFraudguard turns fraud screening on or off explicitly.
func (f *Fraudguard) SetUseFraudguard(use bool) {
	f.useFraudguard = use
}

func (f *Fraudguard) FirstName() string {
	return f.firstName
}

// SetFirstName sets the buyer's first name and enables fraud screening.
func (f *Fraudguard) SetFirstName(name string) {
	f.firstName = name
	f.useFraudguard = true
}

func (f *Fraudguard) LastName() string {
	return f.lastName
}

// SetLastName sets the buyer's last name and enables fraud screening.
func (f *Fraudguard) SetLastName(name string) {
	f.lastName = name
	f.useFraudguard = true
}

func (f *Fraudguard) IPAddress() string {
	return f.ipAddress
}

// SetIPAddress sets the buyer's public IPv4 address and enables fraud screening.
func (f *Fraudguard) SetIPAddress(ip string) error {
	if err := ValidateIPAddress(ip); err != nil {
		return err
	}
	f.ipAddress = ip
	f.useFraudguard = true
	return nil
}

func (f *Fraudguard) ZipCode() string {
	return f.zipCode
}

// SetZipCode sets the buyer's zip code and enables fraud screening.
func (f *Fraudguard) SetZipCode(zipCode string) error {
	if err := ValidateZipCode(zipCode); err != nil {
		return err
	}
	f.zipCode = zipCode
	f.useFraudguard = true
	return nil
}

func (f *Fraudguard) Town() string {
	return f.town
}

// SetTown sets the buyer's town and enables fraud screening.
func (f *Fraudguard) SetTown(town string) error {
	if err := ValidateTown(town); err != nil {
		return err
	}
	f.town = town
	f.useFraudguard = true
	return nil
}

func (f *Fraudguard) BillingCountry() string {
	return f.billingCountry
}

// SetBillingCountry sets the billing country code and enables fraud screening.
func (f *Fraudguard) SetBillingCountry(country string) error {
	if err := ValidateCountry("billingCountry", country); err != nil {
		return err
	}
	f.billingCountry = country
	f.useFraudguard = true
	return nil
}

func (f *Fraudguard) DeliveryCountry() string {
	return f.deliveryCountry
}

// SetDeliveryCountry sets the delivery country code and enables fraud screening.
func (f *Fraudguard) SetDeliveryCountry(country string) error {
	if err := ValidateCountry("deliveryCountry", country); err != nil {
		return err
	}
	f.deliveryCountry = country
	f.useFraudguard = true
	return nil
}

func (f *Fraudguard) EmailAddress() string {
	return f.emailAddress
}

// SetEmailAddress sets the buyer's email address and enables fraud screening.
func (f *Fraudguard) SetEmailAddress(email string) error {
	if err := ValidateEmailAddress(email); err != nil {
		return err
	}
	f.emailAddress = email
	f.useFraudguard = true
	return nil
}

func (f *Fraudguard) buyerInfo() Node {
	info := group("BuyerInfo")
	for _, field := range []struct{ name, value string }{
		{"firstName", f.firstName},
		{"lastName", f.lastName},
		{"zipCode", f.zipCode},
		{"town", f.town},
		{"billingCountry", f.billingCountry},
		{"deliveryCountry", f.deliveryCountry},
		{"emailAddress", f.emailAddress},
		{"ip", f.ipAddress},
	} {
		if field.value != "" {
			info.Children = append(info.Children, leaf(field.name, field.value))
		}
	}
	return info
}
