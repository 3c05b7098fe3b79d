package catalog

import "sort"

// Voice is one selectable TTS voice.
type Voice struct {
	ID      string
	Name    string
	Gender  string
	Tone    string
	Preview string
}

// voicesByProvider is the provider -> voice name -> voice lookup, built once
// at package init rather than reconstructed per render.
var voicesByProvider = map[string]map[string]Voice{
	"elevenlabs": {
		"Rachel": {ID: "el-rachel", Name: "Rachel", Gender: "female", Tone: "warm", Preview: "Hi, thanks for calling. How can I help you today?"},
		"Adam":   {ID: "el-adam", Name: "Adam", Gender: "male", Tone: "confident", Preview: "Good afternoon, you've reached the support desk."},
		"Bella":  {ID: "el-bella", Name: "Bella", Gender: "female", Tone: "bright", Preview: "Hello! Great to hear from you."},
	},
	"deepgram": {
		"Asteria": {ID: "dg-asteria", Name: "Asteria", Gender: "female", Tone: "neutral", Preview: "Thank you for calling, this is Asteria speaking."},
		"Orion":   {ID: "dg-orion", Name: "Orion", Gender: "male", Tone: "calm", Preview: "Hello, how may I assist you?"},
	},
	"cartesia": {
		"Sonic": {ID: "ct-sonic", Name: "Sonic", Gender: "neutral", Tone: "crisp", Preview: "Hi there, what can I do for you today?"},
	},
}

// Providers returns the sorted list of voice providers.
func Providers() []string {
	out := make([]string, 0, len(voicesByProvider))
	for p := range voicesByProvider {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// VoicesFor returns the voices for a provider sorted by name. Unknown
// providers yield an empty slice.
func VoicesFor(provider string) []Voice {
	m := voicesByProvider[provider]
	out := make([]Voice, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// VoiceByName looks up a single voice under a provider.
func VoiceByName(provider, name string) (Voice, bool) {
	v, ok := voicesByProvider[provider][name]
	return v, ok
}
