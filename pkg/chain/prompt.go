package chain

import "fmt"

const routePrompt = `Based on the previous steps, we have:
    1. Coordinates: %[1]s
    2. Destination: %[2]s

    The next step should be to get directions from the coordinates to the destination.

    Format your response EXACTLY like this:
    Action Chain: get_route_to_destination
    Next Action: get_route_to_destination(origin="%[1]s", destination="%[2]s")
    Parameter to Save: None`

// RoutePrompt builds the corrective query sent once both route endpoints
// are known.
func RoutePrompt(coordinates, destination string) string {
	return fmt.Sprintf(routePrompt, coordinates, destination)
}
