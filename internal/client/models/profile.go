// Package models defines the client-side data models exchanged with the
// Portfolio Visualizer API.
package models

import "strings"

// Profile types, countries, market regions and firm types accepted by the
// signup and profile forms.
const (
	ProfileIndividualInvestor  = "INDIVIDUAL_INVESTOR"
	ProfileProfessionalAdvisor = "PROFESSIONAL_ADVISOR"
	ProfileInstitution         = "INSTITUTION"

	CountryIndia         = "INDIA"
	CountryUnitedStates  = "UNITED_STATES"
	CountryUnitedKingdom = "UNITED_KINGDOM"
	CountryCanada        = "CANADA"

	RegionNorthAmerica = "NORTH_AMERICA"
	RegionEurope       = "EUROPE"
	RegionAsiaPacific  = "ASIA_PECIFIC"
	RegionGlobal       = "GLOBAL"

	FirmBrokerDealer = "BROKER_DEALER"
	FirmRIA          = "RIA"
	FirmBank         = "BANK"
	FirmAssetManager = "ASSET_MANAGER"
)

// Account is the user-editable part of a profile as the forms see it.
type Account struct {
	ProfileType   string
	Country       string
	MarketRegion  string
	FirstName     string
	LastName      string
	BusinessEmail string
	Company       string
	FirmType      string
}

// FullName joins first and last name the way the API stores them.
func (a Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	FullName      string `json:"fullName"`
	BusinessEmail string `json:"businessEmail"`
	Password      string `json:"password"`
	ProfileType   string `json:"profileType"`
	Company       string `json:"company"`
	Country       string `json:"country"`
	FirmType      string `json:"firmType"`
	MarketRegion  string `json:"marketRegion"`
}

// ProfileUpdate is the body of POST /auth/update.
type ProfileUpdate struct {
	FullName      string `json:"fullName"`
	BusinessEmail string `json:"businessEmail"`
	ProfileType   string `json:"profileType"`
	Company       string `json:"company"`
	Country       string `json:"country"`
	FirmType      string `json:"firmType"`
	MarketRegion  string `json:"marketRegion"`
}

func NewSignupRequest(a Account, password string) SignupRequest {
	return SignupRequest{
		FullName:      a.FullName(),
		BusinessEmail: a.BusinessEmail,
		Password:      password,
		ProfileType:   a.ProfileType,
		Company:       a.Company,
		Country:       a.Country,
		FirmType:      a.FirmType,
		MarketRegion:  a.MarketRegion,
	}
}

func NewProfileUpdate(a Account) ProfileUpdate {
	return ProfileUpdate{
		FullName:      a.FullName(),
		BusinessEmail: a.BusinessEmail,
		ProfileType:   a.ProfileType,
		Company:       a.Company,
		Country:       a.Country,
		FirmType:      a.FirmType,
		MarketRegion:  a.MarketRegion,
	}
}

// Profile is the payload of GET /auth/me.
type Profile struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Country      string `json:"country"`
	MarketRegion string `json:"market_region"`
	Company      string `json:"company"`
	FirmType     string `json:"firm_type"`
}

// Account splits Name on the first space: everything after it is the last
// name.
func (p Profile) Account() Account {
	first, last, _ := strings.Cut(p.Name, " ")
	return Account{
		ProfileType:   p.Role,
		Country:       p.Country,
		MarketRegion:  p.MarketRegion,
		FirstName:     first,
		LastName:      last,
		BusinessEmail: p.Email,
		Company:       p.Company,
		FirmType:      p.FirmType,
	}
}
