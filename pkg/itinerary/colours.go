package itinerary

var DayColours = []string{
	"#3B82F6", // Blue
	"#EF4444", // Red
	"#10B981", // Green
	"#F59E0B", // Amber
	"#8B5CF6", // Purple
	"#EC4899", // Pink
	"#14B8A6", // Teal
	"#F97316", // Orange
	"#6366F1", // Indigo
	"#84CC16", // Lime
}

const DefaultRouteColour = "#4285F4"

func DayColour(dayIndex int) string {
	if dayIndex < 0 {
		dayIndex = -dayIndex
	}

	return DayColours[dayIndex%len(DayColours)]
}
