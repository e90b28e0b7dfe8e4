package domain

// DefaultDepartment is assigned to profiles created without an explicit department.
const DefaultDepartment = "General"

// Department is an organizational unit and the offices inside it.
type Department struct {
	Name    string
	Offices []string
}

var departments = []Department{
	{Name: "Finance and Economic Planning", Offices: []string{"Budget Office", "Procurement Office", "Accounting Office", "Revenue Collection", "Audit Office"}},
	{Name: "Health Services", Offices: []string{"Medical Services", "Public Health Office", "Pharmacy Services", "Health Records", "Community Health"}},
	{Name: "ICT, Trade, Investment and Industry", Offices: []string{"System Administration", "Network Operations", "Help Desk", "Data Management", "ICT Policy Office"}},
	{Name: "Education, Social Welfare and Family Affairs", Offices: []string{"Education Office", "Social Welfare", "Family Affairs", "Early Childhood Development", "Adult Education"}},
	{Name: "Agriculture, Livestock and Veterinary Services", Offices: []string{"Crop Development", "Livestock Development", "Veterinary Services", "Agricultural Extension", "Research Office"}},
	{Name: "Lands, Public Works and Urban Development", Offices: []string{"Land Management", "Urban Planning", "Housing Development", "Survey Office", "Physical Planning"}},
	{Name: "Roads and Transport", Offices: []string{"Roads Department", "Transport Licensing", "Traffic Management", "Mechanical Services", "Road Maintenance"}},
	{Name: "Water Services", Offices: []string{"Water Supply", "Water Quality", "Infrastructure", "Customer Service", "Technical Services"}},
	{Name: "Office of the Governor, Public Service and County Administration", Offices: []string{"Governor's Office", "Public Service", "County Administration", "Public Relations", "Protocol Office"}},
	{Name: "Energy, Environment and Climate Change", Offices: []string{"Energy Office", "Environment Office", "Climate Change Unit", "Natural Resources", "Conservation Office"}},
	{Name: "Information and Communication Technology"},
	{Name: DefaultDepartment},
}

// Departments returns a copy of the department catalogue.
func Departments() []Department {
	out := make([]Department, len(departments))
	for i, d := range departments {
		out[i] = Department{Name: d.Name, Offices: append([]string(nil), d.Offices...)}
	}
	return out
}

// IsValidDepartment reports whether name is in the catalogue.
func IsValidDepartment(name string) bool {
	_, ok := findDepartment(name)
	return ok
}

// OfficesFor lists the offices of a department, or nil if it has none.
func OfficesFor(name string) []string {
	d, ok := findDepartment(name)
	if !ok {
		return nil
	}
	return append([]string(nil), d.Offices...)
}

// IsValidOffice reports whether office may be recorded against department.
// Departments without an office list accept any office.
func IsValidOffice(department, office string) bool {
	d, ok := findDepartment(department)
	if !ok || len(d.Offices) == 0 {
		return true
	}
	for _, candidate := range d.Offices {
		if candidate == office {
			return true
		}
	}
	return false
}

func findDepartment(name string) (Department, bool) {
	for _, d := range departments {
		if d.Name == name {
			return d, true
		}
	}
	return Department{}, false
}
