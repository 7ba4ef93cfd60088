package station

// defaultRegions is the built-in catalogue of INCOIS tide stations along the
// Indian coast. Order matters: it is the tie-break order of the ranking.
var defaultRegions = []Region{
	{Name: "Gujarat", Stations: []string{
		"Okha", "Porbandar", "Dwarka-Rupen-Bandar", "Kandla-Harbour", "Hansthal-Point",
		"Koteshwar", "Lakhpat", "Mandvi", "Jafarabad", "Suvali", "Dahej-Bandar",
		"Bulsar", "Dahanu",
	}},
	{Name: "Maharashtra", Stations: []string{
		"Kelve-Mahim", "Janjira-Dangri-Bandar", "Ratnagiri", "Devgarh", "Jaigarh",
		"Dabhol", "Boria-Bay", "Malvan", "Dahanu",
	}},
	{Name: "Goa", Stations: []string{"Marmagao", "Betul"}},
	{Name: "Karnataka", Stations: []string{"Karwar", "Kumta", "Coondapore-Ganguli", "Malpe", "Mangalore"}},
	{Name: "Kerala", Stations: []string{
		"Kasargod", "Cannanore", "Azhikal", "Calicut", "Beypore", "Ponnani", "Kochi",
		"Alleppey", "Quilon", "Trivandrum",
	}},
	{Name: "Tamil Nadu", Stations: []string{
		"Kolachal", "Kulasekarapatnam", "Tuticorin", "Pamban-Pass", "Nagapatnam",
		"Cuddalore", "Pondichery", "Chennai",
	}},
	{Name: "Andhra Pradesh", Stations: []string{
		"Surya-Lanka", "Kakinada", "Vishakapatnam", "Bhimunipatnam", "Kalingapatnam",
	}},
	{Name: "Odisha", Stations: []string{
		"Gopalpur", "Chilka-Mouth", "Kushbhadra-River", "Devi-River-Entrance", "Paradip",
		"False-Point", "Chandbali", "Dhamra",
	}},
	{Name: "West Bengal", Stations: []string{"Diamond-Harbour", "Calcutta-Kidderpore-docks"}},
	{Name: "Lakshadweep", Stations: []string{"Kavaratti-Laccadive"}},
	{Name: "Andaman and Nicobar", Stations: []string{
		"Car-Nicobar", "Cinque-Island", "Cleugh-Passage", "Dring-Harbour",
		"Expedition-Harbour", "Hoare-Bay", "Jalebar", "Long-Island", "Boat-Island",
	}},
}
