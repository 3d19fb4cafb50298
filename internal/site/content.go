package site

// Item is a titled blurb used by several sections.
type Item struct {
	Title       string
	Description string
}

// Project is a portfolio entry.
type Project struct {
	Title       string
	Description string
	Category    string
	Location    string
	Image       string
}

// GalleryImage is one picture in the gallery section.
type GalleryImage struct {
	Title string
	URL   string
}

// Content is the company copy rendered by the sections.
type Content struct {
	Company        string
	Founder        string
	City           string
	Phone          string
	Email          string
	Address        string
	Values         []Item
	Services       []Item
	ServiceOptions []string
	Projects       []Project
	Process        []Item
	FooterServices []string
	Gallery        []GalleryImage // shown when gallery storage is empty
}

// DefaultContent is the KV Builders copy.
var DefaultContent = Content{
	Company: "KV Builders",
	Founder: "K. Kumaravel M.Sc.",
	City:    "Coimbatore",
	Phone:   "+91 98430 72490",
	Email:   "kvbuilders04@gmail.com",
	Address: "No. 36, 1st Floor, S.N.D Lay-out, Street No.4, Tatabad, Coimbatore - 641 012",
	Values: []Item{
		{"Quality Assurance", "Uncompromising standards in every project we deliver"},
		{"Expert Team", "Skilled professionals with decades of combined experience"},
		{"Client Focus", "Your vision and satisfaction drive everything we do"},
	},
	Services: []Item{
		{"Construction", "From foundation to finishing, we deliver quality construction services"},
		{"Interior Works", "Creating beautiful, functional spaces with premium interior solutions"},
		{"Real Estate", "Helping you find or develop the perfect property for your needs"},
	},
	ServiceOptions: []string{"Construction", "Interior Works", "Real Estate", "Consultation"},
	Projects: []Project{
		{"Luxury Villa Project", "Modern luxury villa with contemporary design and premium finishes", "Residential", "Coimbatore", "https://images.unsplash.com/photo-1580587771525-78b9dba3b914"},
		{"Modern Residential Complex", "Contemporary residential building with spacious apartments", "Residential", "Coimbatore", "https://images.unsplash.com/photo-1647025980693-04e6b24a6d78"},
		{"Commercial Complex", "State-of-the-art commercial building with modern amenities", "Commercial", "Coimbatore", "https://images.unsplash.com/photo-1615406020658-6c4b805f1f30"},
		{"High-Rise Development", "Modern commercial high-rise with premium specifications", "Commercial", "Coimbatore", "https://images.unsplash.com/photo-1574848296471-28f79a036f79"},
		{"Contemporary Architecture", "Geometric modern building with innovative design", "Commercial", "Coimbatore", "https://images.unsplash.com/photo-1582407947304-fd86f028f716"},
		{"Premium Interior Design", "Luxurious interior design with attention to detail", "Interior", "Coimbatore", "https://images.unsplash.com/photo-1586023492125-27b2c045efd7"},
	},
	Process: []Item{
		{"Planning & Design", "We start with understanding your vision and creating detailed blueprints"},
		{"Construction", "Our skilled team brings your project to life with quality workmanship"},
		{"Quality Inspection", "Rigorous quality checks ensure every detail meets our high standards"},
		{"Handover", "We deliver your completed project on time and within budget"},
	},
	FooterServices: []string{
		"Construction Services",
		"Interior Design",
		"Real Estate Development",
		"Project Consultation",
		"Property Management",
	},
	Gallery: []GalleryImage{
		{"Our Team", "https://images.unsplash.com/photo-1541888946425-d81bb19240f5"},
		{"Professional Work", "https://images.unsplash.com/photo-1694521787162-5373b598945c"},
		{"Client Meeting", "https://images.unsplash.com/photo-1503387762-592deb58ef4e"},
	},
}
