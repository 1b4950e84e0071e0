package services

import "slices"

var countries = []string{
	"Afghanistan", "Albania", "Algeria", "Andorra", "Angola", "Argentina", "Armenia",
	"Australia", "Austria", "Azerbaijan", "Bahrain", "Bangladesh", "Belarus", "Belgium",
	"Bolivia", "Bosnia and Herzegovina", "Brazil", "Bulgaria", "Cambodia", "Cameroon",
	"Canada", "Chile", "China", "Colombia", "Costa Rica", "Croatia", "Cuba", "Cyprus",
	"Czech Republic", "Denmark", "Dominican Republic", "Ecuador", "Egypt", "Estonia",
	"Ethiopia", "Finland", "France", "Georgia", "Germany", "Ghana", "Greece", "Guatemala",
	"Hungary", "Iceland", "India", "Indonesia", "Iran", "Iraq", "Ireland", "Israel",
	"Italy", "Japan", "Jordan", "Kazakhstan", "Kenya", "Kuwait", "Latvia", "Lebanon",
	"Lithuania", "Luxembourg", "Malaysia", "Malta", "Mexico", "Moldova", "Mongolia",
	"Montenegro", "Morocco", "Netherlands", "New Zealand", "Nigeria", "North Macedonia",
	"Norway", "Pakistan", "Panama", "Peru", "Philippines", "Poland", "Portugal", "Qatar",
	"Romania", "Saudi Arabia", "Serbia", "Singapore", "Slovakia", "Slovenia",
	"South Africa", "South Korea", "Spain", "Sri Lanka", "Sweden", "Switzerland",
	"Thailand", "Tunisia", "Turkey", "Ukraine", "United Arab Emirates", "United Kingdom",
	"United States", "Uruguay", "Uzbekistan", "Venezuela", "Vietnam",
}

// Countries returns the fixed list offered in the contact form.
func Countries() []string {
	return slices.Clone(countries)
}
