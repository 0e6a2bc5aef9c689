package content

// Bucket names, one per asset class.
const (
	BucketProfileImages = "profile-images"
	BucketContactImages = "contact-images"
	BucketDocuments     = "documents"
	BucketCertDocuments = "cert-documents"
)

var documentExtensions = []string{"pdf", "doc", "docx"}

// Sections returns the full registry in page order. The order matches the
// navigation shell's fixed section list.
func Sections() []Section {
	return []Section{
		{
			Key:        "home",
			Label:      "Home",
			Mode:       StorageSnapshot,
			FixedSlots: true,
			Asset:      &AssetClass{Bucket: BucketProfileImages, AllowImages: true},
			Defaults: []Item{
				{Fields: map[string]string{"label": "Profile photo 1"}},
				{Fields: map[string]string{"label": "Profile photo 2"}},
				{Fields: map[string]string{"label": "Profile photo 3"}},
				{Fields: map[string]string{"label": "Profile photo 4"}},
			},
		},
		{
			Key:      "about",
			Label:    "About Me",
			Mode:     StorageSnapshot,
			Required: []string{"text"},
			Defaults: []Item{
				{Fields: map[string]string{
					"text": "Experienced sales administrator with 6+ years in the IT and Telecommunications industry, proficient in customer service and sales support. I am a young professional with a strong foundation in Information Systems, E-logistics as well as Data Analytics with a current goal and great interest to become a junior business analyst.",
				}},
			},
		},
		{
			Key:      "education",
			Label:    "Education",
			Mode:     StorageSnapshot,
			Required: []string{"institution", "degree"},
			Asset:    &AssetClass{Bucket: BucketDocuments, Extensions: documentExtensions, AllowImages: true},
			Defaults: []Item{
				{Fields: map[string]string{
					"institution": "International Institute of Business Analysis",
					"degree":      "Entry Certificate in Business Analysis",
					"period":      "Present",
				}},
				{Fields: map[string]string{
					"institution": "University of the Western Cape",
					"degree":      "Post Graduate Diploma in Computer Software & Media Applications: E-Logistics, Supply Chain Management & Data Science",
					"period":      "Completed",
				}},
				{Fields: map[string]string{
					"institution": "University of the Western Cape",
					"degree":      "BCom General",
					"period":      "Completed",
				}},
				{Fields: map[string]string{
					"institution": "Leap Science and Math School",
					"degree":      "Matric",
					"period":      "Completed",
				}},
			},
		},
		{
			Key:      "certifications",
			Label:    "Certifications",
			Mode:     StorageRows,
			Table:    "certifications",
			Columns:  []string{"name", "issuer", "date"},
			Required: []string{"name", "issuer"},
			Asset:    &AssetClass{Bucket: BucketCertDocuments, Extensions: []string{"pdf"}, AllowImages: true},
			Defaults: certificationDefaults(),
		},
		{
			Key:      "skills",
			Label:    "Skills",
			Mode:     StorageRows,
			Table:    "skills",
			Columns:  []string{"name"},
			Required: []string{"name"},
			Defaults: skillDefaults(),
		},
		{
			Key:      "experience",
			Label:    "Experience",
			Mode:     StorageSnapshot,
			Required: []string{"title", "company"},
			Defaults: experienceDefaults(),
		},
		{
			Key:      "projects",
			Label:    "Projects",
			Mode:     StorageSnapshot,
			Required: []string{"name", "description"},
		},
		{
			Key:      "contact",
			Label:    "Contact",
			Mode:     StorageSnapshot,
			Required: []string{"label", "value"},
			Asset:    &AssetClass{Bucket: BucketContactImages, Extensions: documentExtensions, AllowImages: true},
			Defaults: []Item{
				{Fields: map[string]string{"label": "Phone", "value": "0649731961", "link": "tel:0649731961"}},
				{Fields: map[string]string{"label": "Email", "value": "ysibene@gmail.com", "link": "mailto:ysibene@gmail.com"}},
				{Fields: map[string]string{"label": "LinkedIn", "value": "View Profile", "link": "https://www.linkedin.com/in/yonela-sibene"}},
				{Fields: map[string]string{"label": "GitHub", "value": "View Profile", "link": "https://github.com/yonelasibene"}},
				{Fields: map[string]string{"label": "Photo", "value": "Contact photo"}},
				{Fields: map[string]string{"label": "Curriculum Vitae", "value": "CV document"}},
			},
		},
	}
}

// Lookup finds a section by key.
func Lookup(key string) (Section, bool) {
	for _, section := range Sections() {
		if section.Key == key {
			return section, true
		}
	}
	return Section{}, false
}

func certificationDefaults() []Item {
	entries := []struct{ name, issuer, date string }{
		{"Entry Certificate in Business Analysis", "International Institute of Business Analysis", "In Progress"},
		{"AI & Machine Learning For Everyone", "CAPACITI", "2025"},
		{"AI FOR EVERYONE", "CAPACITI", "2025"},
		{"Introduction to AI", "Google (Coursera)", "2025"},
		{"AI For Everyone", "Coursera", "2025"},
		{"Introduction to Responsible AI", "Coursera", "2025"},
		{"Active Listening Enhancing Communication Skills", "Coursera", "2025"},
		{"Developing Interpersonal Skills", "Coursera", "2025"},
		{"Emotional Intelligence", "Coursera", "2025"},
		{"Financial Planning For Young Adults", "Coursera", "2025"},
		{"Finding Your Professional Voice", "Coursera", "2025"},
		{"Grit and Growth Mindset", "Coursera", "2025"},
		{"Introduction to Personal Branding", "Coursera", "2025"},
		{"Leading With Impact", "Coursera", "2025"},
		{"Preparation For Job Interviews", "Coursera", "2025"},
		{"Solving Problems With Creative & Critical Thinking", "Coursera", "2025"},
		{"Verbal Communications and Presentation Skills", "Coursera", "2025"},
		{"Work Smarter, Not Harder", "Coursera", "2025"},
		{"Write Professional Emails in English", "Coursera", "2025"},
	}
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, Item{Fields: map[string]string{
			"name":   entry.name,
			"issuer": entry.issuer,
			"date":   entry.date,
		}})
	}
	return items
}

func skillDefaults() []Item {
	names := []string{
		"Data Analysis",
		"Customer Service",
		"Data Entry",
		"Data Visualisation/Storytelling",
		"Sales Support",
		"Communication and Collaboration",
		"Administration",
		"Report Compilation",
		"CRM",
		"Microsoft Suite",
		"Training and Development",
	}
	items := make([]Item, 0, len(names))
	for _, name := range names {
		items = append(items, Item{Fields: map[string]string{"name": name}})
	}
	return items
}

func experienceDefaults() []Item {
	entries := []struct{ period, title, company, description string }{
		{
			"2025 - Present", "Digital Associate", "CAPACITI",
			"Supporting digital transformation initiatives and technology implementation projects. Collaborating with cross-functional teams on digital solutions and process improvements. Contributing to training and development programs for digital literacy and participating in agile methodologies and continuous improvement processes.",
		},
		{
			"2022 - 2025", "Sales Administrator", "Vox Telecom",
			"Successfully conducted area feasibility checks and generated sales quotes.",
		},
		{
			"2022 - 2023", "Assistant & Facilitator", "The Learning Trust",
			"Voluntarily group facilitation of school children between the ages of 6 and 16. Successfully managed after school coaches, organised activities, facilitated discussions and attendance using an online platform provided by the organisation.",
		},
		{
			"2021 - 2022", "Data Capturing Specialist", "The National Sea Rescue Institute",
			"Contributed to saving over 1100 lives through administrative support to the sales team which telephonically collected donations and attained new donors to fund responsive station rescues. Manual recording of sales, capturing donor details, compiling donation reports and training new sales consultants.",
		},
		{
			"2019 - 2021", "Intern", "Vox Telecom",
			"Assisted sales teams achieve their monthly targets through administrative tasks such as filing, meeting coordination, compilation and submission of business partner agreements as well as monitoring sales reports for accuracy.",
		},
		{
			"2018", "Sales Agent", "Teleperformance CPT",
			"Responded to UK customer queries via the phone. Assisted customers with package top ups, SIM card blocking, phone theft reporting as well as sim swap generation.",
		},
		{
			"2017", "Customer Service Associate", "Amazon CPT",
			"Interacted with USA customers providing sales support through order tracking, retrieval of lost or incorrectly delivered packages, and complaint resolution. Achieved monthly call targets.",
		},
	}
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, Item{Fields: map[string]string{
			"period":      entry.period,
			"title":       entry.title,
			"company":     entry.company,
			"description": entry.description,
		}})
	}
	return items
}
