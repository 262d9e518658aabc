package refdata

// DefaultCountries is the starter dataset loaded when no external reference
// feed is configured. Codes follow ISO 3166-1 alpha-2 except the location
// groups, which use the exporting authority's grouping codes.
func DefaultCountries() []Country {
	return []Country{
		{Code: "AU", Name: "Australia"},
		{Code: "BR", Name: "Brazil"},
		{Code: "CA", Name: "Canada"},
		{Code: "CL", Name: "Chile"},
		{Code: "CN", Name: "China"},
		{Code: "DE", Name: "Germany"},
		{Code: "ES", Name: "Spain"},
		{Code: "FR", Name: "France"},
		{Code: "GB", Name: "United Kingdom"},
		{Code: "IN", Name: "India"},
		{Code: "JP", Name: "Japan"},
		{Code: "KR", Name: "South Korea"},
		{Code: "NL", Name: "Netherlands"},
		{Code: "NZ", Name: "New Zealand"},
		{Code: "US", Name: "United States"},
		{Code: "ZA", Name: "South Africa"},

		{Code: "EU", Name: "European Union", LocationGroup: true},
		{Code: "GCC", Name: "Gulf Cooperation Council", LocationGroup: true},
	}
}
