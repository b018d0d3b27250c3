package catalog

func price(v int) *int { return &v }

// Default returns the built-in reference data. Each call builds a fresh copy.
func Default() *Catalog {
	return &Catalog{
		Brands:       []string{"Maruti", "Hyundai", "Honda", "Tata", "Mahindra", "Toyota"},
		Cars:         defaultCars(),
		Categories:   defaultCategories(),
		ServiceTypes: defaultServiceTypes(),
		TimeSlots: []string{
			"09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
			"02:00 PM", "03:00 PM", "04:00 PM", "05:00 PM",
		},
		FAQs: defaultFAQs(),
		Contacts: []ContactAction{
			{Kind: "phone", Label: "Call Us", Value: "+91 76799 53929", URL: "tel:+917679953929"},
			{Kind: "email", Label: "Email Us", Value: "hangsarajbarmancob1@gmail.com", URL: "mailto:hangsarajbarmancob1@gmail.com"},
		},
	}
}

func defaultCars() []CarRecord {
	return []CarRecord{
		{ID: "maruti-swift-petrol", Brand: "Maruti", Model: "Swift", FuelType: FuelPetrol},
		{ID: "maruti-swift-cng", Brand: "Maruti", Model: "Swift", FuelType: FuelCNG},
		{ID: "maruti-baleno-petrol", Brand: "Maruti", Model: "Baleno", FuelType: FuelPetrol},
		{ID: "maruti-dzire-petrol", Brand: "Maruti", Model: "Dzire", FuelType: FuelPetrol},
		{ID: "maruti-dzire-cng", Brand: "Maruti", Model: "Dzire", FuelType: FuelCNG},
		{ID: "maruti-brezza-petrol", Brand: "Maruti", Model: "Brezza", FuelType: FuelPetrol},
		{ID: "hyundai-i20-petrol", Brand: "Hyundai", Model: "i20", FuelType: FuelPetrol},
		{ID: "hyundai-i20-diesel", Brand: "Hyundai", Model: "i20", FuelType: FuelDiesel},
		{ID: "hyundai-creta-petrol", Brand: "Hyundai", Model: "Creta", FuelType: FuelPetrol},
		{ID: "hyundai-creta-diesel", Brand: "Hyundai", Model: "Creta", FuelType: FuelDiesel},
		{ID: "hyundai-venue-petrol", Brand: "Hyundai", Model: "Venue", FuelType: FuelPetrol},
		{ID: "honda-city-petrol", Brand: "Honda", Model: "City", FuelType: FuelPetrol},
		{ID: "honda-city-diesel", Brand: "Honda", Model: "City", FuelType: FuelDiesel},
		{ID: "honda-amaze-petrol", Brand: "Honda", Model: "Amaze", FuelType: FuelPetrol},
		{ID: "tata-nexon-petrol", Brand: "Tata", Model: "Nexon", FuelType: FuelPetrol},
		{ID: "tata-nexon-diesel", Brand: "Tata", Model: "Nexon", FuelType: FuelDiesel},
		{ID: "tata-tiago-petrol", Brand: "Tata", Model: "Tiago", FuelType: FuelPetrol},
		{ID: "tata-tiago-cng", Brand: "Tata", Model: "Tiago", FuelType: FuelCNG},
		{ID: "mahindra-xuv700-diesel", Brand: "Mahindra", Model: "XUV700", FuelType: FuelDiesel},
		{ID: "mahindra-xuv700-petrol", Brand: "Mahindra", Model: "XUV700", FuelType: FuelPetrol},
		{ID: "mahindra-scorpio-diesel", Brand: "Mahindra", Model: "Scorpio", FuelType: FuelDiesel},
		{ID: "toyota-innova-diesel", Brand: "Toyota", Model: "Innova Crysta", FuelType: FuelDiesel},
		{ID: "toyota-glanza-petrol", Brand: "Toyota", Model: "Glanza", FuelType: FuelPetrol},
		{ID: "toyota-glanza-cng", Brand: "Toyota", Model: "Glanza", FuelType: FuelCNG},
	}
}

func defaultCategories() []ServiceCategory {
	return []ServiceCategory{
		{
			ID:          "periodic",
			Title:       "Periodic Services",
			IconName:    "wrench",
			Description: "Scheduled maintenance to keep your car running smoothly.",
			Items: []ServiceItem{
				{
					ID: "svc-basic", Name: "Basic Service", Price: 2499, OriginalPrice: price(3199),
					Description:  "Essential oil change and inspection.",
					TimeRequired: "4 Hours",
					Features:     []string{"Engine oil replacement", "Oil filter replacement", "Air filter cleaning", "15-point inspection"},
				},
				{
					ID: "svc-standard", Name: "Standard Service", Price: 3999, OriginalPrice: price(4999),
					Description:  "Recommended every 10,000 km.",
					TimeRequired: "6 Hours",
					Features:     []string{"Everything in Basic", "Brake pad cleaning", "Coolant top-up", "40-point inspection"},
					Recommended:  true,
				},
				{
					ID: "svc-comprehensive", Name: "Comprehensive Service", Price: 5999,
					Description:  "Complete care for high-mileage cars.",
					TimeRequired: "8 Hours",
					Features:     []string{"Everything in Standard", "Spark plug replacement", "Throttle body cleaning", "Wheel alignment"},
				},
			},
		},
		{
			ID:          "ac",
			Title:       "AC Service & Repair",
			IconName:    "snowflake",
			Description: "Cooling performance checks, gas top-up and repairs.",
			Items: []ServiceItem{
				{
					ID: "ac-regular", Name: "Regular AC Service", Price: 1499, OriginalPrice: price(1999),
					Description:  "Cooling check and cleaning.",
					TimeRequired: "3 Hours",
					Features:     []string{"AC vent cleaning", "Cooling coil check", "Condenser cleaning"},
					Recommended:  true,
				},
				{
					ID: "ac-gas", Name: "AC Gas Refill", Price: 2299,
					Description:  "Refrigerant refill with leak test.",
					TimeRequired: "4 Hours",
					Features:     []string{"Leak test", "Gas refill up to 600g", "Compressor oil top-up"},
				},
			},
		},
		{
			ID:          "battery",
			Title:       "Batteries",
			IconName:    "battery",
			Description: "Battery health checks, jump starts and replacements.",
			Items: []ServiceItem{
				{
					ID: "bat-check", Name: "Battery Health Check", Price: 499,
					Description:  "Load test and terminal cleaning.",
					TimeRequired: "30 Minutes",
					Features:     []string{"Load test", "Terminal cleaning", "Charging system check"},
				},
				{
					ID: "bat-replace", Name: "Battery Replacement", Price: 4499, OriginalPrice: price(5299),
					Description:  "New battery with fitting.",
					TimeRequired: "1 Hour",
					Features:     []string{"Branded battery", "Free installation", "Old battery buy-back"},
					Recommended:  true,
				},
			},
		},
		{
			ID:          "denting",
			Title:       "Denting & Painting",
			IconName:    "spray",
			Description: "Dent removal and factory-finish painting.",
			Items: []ServiceItem{
				{
					ID: "dent-panel", Name: "Single Panel Paint", Price: 2799,
					Description:  "Paint one body panel.",
					TimeRequired: "2 Days",
					Features:     []string{"Dent removal", "Primer coat", "Colour matched paint", "Clear coat"},
				},
				{
					ID: "dent-full", Name: "Full Body Paint", Price: 24999, OriginalPrice: price(29999),
					Description:  "Complete repaint of the car.",
					TimeRequired: "7 Days",
					Features:     []string{"All panels", "Rubbing and polishing", "Paint warranty"},
				},
			},
		},
		{
			ID:          "detailing",
			Title:       "Car Spa & Detailing",
			IconName:    "sparkles",
			Description: "Interior and exterior cleaning, polishing and coating.",
			Items: []ServiceItem{
				{
					ID: "spa-wash", Name: "Premium Car Wash", Price: 999,
					Description:  "Foam wash with interior vacuum.",
					TimeRequired: "2 Hours",
					Features:     []string{"Foam wash", "Interior vacuum", "Dashboard polish"},
				},
				{
					ID: "spa-ceramic", Name: "Ceramic Coating", Price: 17999, OriginalPrice: price(21999),
					Description:  "Long lasting paint protection.",
					TimeRequired: "2 Days",
					Features:     []string{"Paint correction", "9H ceramic coat", "3 year protection"},
					Recommended:  true,
				},
			},
		},
		{
			ID:          "windshield",
			Title:       "Windshields & Lights",
			IconName:    "car",
			Description: "Glass repair, replacement and lighting upgrades.",
			Items: []ServiceItem{
				{
					ID: "ws-front", Name: "Front Windshield Replacement", Price: 5499,
					Description:  "OEM glass with sealant.",
					TimeRequired: "4 Hours",
					Features:     []string{"OEM glass", "Sealant application", "Rain sensor calibration"},
				},
			},
		},
	}
}

func defaultServiceTypes() []ServiceType {
	return []ServiceType{
		{ID: "periodic", Name: "Periodic Service", Duration: "2-3 hours", Description: "Regular Maintenance and Servicing"},
		{ID: "pickup", Name: "Pick Up & Drop", Duration: "30-45 min", Description: "Hassle-free car pickup and drop service"},
		{ID: "denting", Name: "Denting & Painting", Duration: "1-2 days", Description: "Expert Dent Removal and Painting Services"},
		{ID: "ac", Name: "AC Service", Duration: "2-3 hours", Description: "Professional Car AC Repair and Maintenance"},
		{ID: "spa", Name: "Car Spa & Cleaning", Duration: "1-2 hours", Description: "Professional Car Cleaning Services"},
		{ID: "detailing", Name: "Car Detailing", Duration: "3-4 hours", Description: "Professional Car Detailing Services"},
		{ID: "battery", Name: "Battery Service", Duration: "30-60 min", Description: "Battery Check, Repair and Replacement"},
		{ID: "windshield", Name: "Windshield Service", Duration: "1-2 hours", Description: "Windshield Repair and Replacement"},
	}
}

func defaultFAQs() []FAQ {
	return []FAQ{
		{
			Question: "What is included in the TurboElite Service?",
			Answer:   "Our TurboElite Service covers all essential check-ups, oil replacement, filter cleaning/replacement, fluid top-ups, and a comprehensive 40-point vehicle inspection, all completed within 90 minutes by a dedicated team of technicians.",
		},
		{
			Question: "Do you use genuine spare parts?",
			Answer:   "Yes, we use 100% genuine OEM and OES parts. We will show you the parts before installation.",
		},
		{
			Question: "Is there a warranty on the service?",
			Answer:   "We offer a 1000km or 1-month warranty (whichever comes first) on our workmanship and the parts we replace.",
		},
		{
			Question: "Do you offer free pick-up and drop?",
			Answer:   "Yes, we provide complimentary doorstep pick-up and drop service for all major service packages.",
		},
		{
			Question: "How can I track my car service?",
			Answer:   "You receive updates via SMS and WhatsApp at every stage of the service, from pick-up to final delivery.",
		},
	}
}
