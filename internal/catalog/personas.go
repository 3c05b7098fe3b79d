// Package catalog holds the immutable configuration data the console draws
// from: role-play personas, voice tables and the purchasable number pool.
// Everything here is built once at startup; accessors return copies.
package catalog

// PersonaKind classifies who the simulated partner pretends to be.
type PersonaKind string

const (
	PersonaCustomer PersonaKind = "customer"
	PersonaAgent    PersonaKind = "agent"
	PersonaBot      PersonaKind = "bot"
)

// Persona is a fixed role-play partner definition.
type Persona struct {
	ID            string
	Name          string
	Kind          PersonaKind
	Description   string
	Scenario      string
	Background    string
	CommStyle     string
	PainPoints    []string
	Greeting      string
}

// personas is the fixed role-play catalog. Order is presentation order.
var personas = []Persona{
	{
		ID:          "1",
		Name:        "David Chen",
		Kind:        PersonaCustomer,
		Description: "First-time caller comparing providers",
		Scenario:    "Price shopping for a family plan",
		Background:  "Works in IT procurement, does his research before calling and expects concrete numbers.",
		CommStyle:   "Direct and analytical, asks pointed follow-up questions.",
		PainPoints:  []string{"Opaque pricing", "Long hold times", "Being transferred repeatedly"},
		Greeting:    "Hi, I've been looking at your plans online and I have a few questions before I commit to anything.",
	},
	{
		ID:          "2",
		Name:        "Sarah Mitchell",
		Kind:        PersonaCustomer,
		Description: "Frustrated repeat caller with a billing dispute",
		Scenario:    "Third call about the same duplicate charge",
		Background:  "Small business owner who has already spent two hours on this issue across previous calls.",
		CommStyle:   "Impatient at first, warms up quickly when she feels heard.",
		PainPoints:  []string{"Repeating her story every call", "No callback as promised", "Duplicate charges"},
		Greeting:    "Hi, this is Sarah Mitchell. I'm calling about my order again — this is the third time now.",
	},
	{
		ID:          "3",
		Name:        "Marcus Webb",
		Kind:        PersonaCustomer,
		Description: "Elderly customer who needs patient guidance",
		Scenario:    "Setting up the mobile app for the first time",
		Background:  "Retired teacher, comfortable on the phone but not with smartphones.",
		CommStyle:   "Chatty and slow-paced, needs steps repeated and confirmed.",
		PainPoints:  []string{"Jargon-heavy explanations", "Being rushed", "Small print"},
		Greeting:    "Hello there. My granddaughter said I should get the app set up, but I'm afraid I'm a bit lost.",
	},
	{
		ID:          "4",
		Name:        "Priya Raman",
		Kind:        PersonaAgent,
		Description: "Peer agent escalating a complex case",
		Scenario:    "Warm transfer with partial context",
		Background:  "Tier-1 agent at a partner desk handing over a case she could not resolve.",
		CommStyle:   "Professional shorthand, expects you to pick up the case details quickly.",
		PainPoints:  []string{"Incomplete case notes", "Customers re-verifying identity twice"},
		Greeting:    "Hey, I have a customer on the line with a provisioning issue that's outside my queue — can I brief you?",
	},
	{
		ID:          "5",
		Name:        "Atlas",
		Kind:        PersonaBot,
		Description: "Automated IVR system on the other end",
		Scenario:    "Navigating a partner company's phone tree",
		Background:  "A menu-driven IVR that only responds to exact phrases and keypad input.",
		CommStyle:   "Rigid prompts, no improvisation, repeats the menu on unrecognised input.",
		PainPoints:  nil,
		Greeting:    "Thank you for calling. Please say 'billing', 'support', or 'sales' to continue.",
	},
	{
		ID:          "6",
		Name:        "Elena Vasquez",
		Kind:        PersonaCustomer,
		Description: "Upset customer threatening to cancel",
		Scenario:    "Retention call after a service outage",
		Background:  "Runs an online store that lost a weekend of sales during the outage.",
		CommStyle:   "Blunt, quotes competitor offers, responds well to concrete remedies.",
		PainPoints:  []string{"Outage compensation", "Feeling like a number", "Slow escalations"},
		Greeting:    "Before you say anything — I want to know what you're going to do about last weekend.",
	},
}

// Personas returns a copy of the full persona catalog.
func Personas() []Persona {
	out := make([]Persona, len(personas))
	copy(out, personas)
	return out
}

// PersonaByID looks up a persona. ok is false for unknown ids.
func PersonaByID(id string) (Persona, bool) {
	for _, p := range personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}
