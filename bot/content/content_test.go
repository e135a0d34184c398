package content

import (
	"strings"
	"testing"

	coreconfig "github.com/codewithmemo/memobot/core/config"
)

func TestAboutFallsBackToStockProfile(t *testing.T) {
	v := NewViews(coreconfig.ChannelConfig{Name: "MEMO"})
	out := v.About()
	if !strings.Contains(out, "About MEMO") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.Contains(out, "• Machine Learning") {
		t.Fatalf("missing stock topics: %q", out)
	}
}

func TestResourcesEscapesLinkNames(t *testing.T) {
	v := NewViews(coreconfig.ChannelConfig{
		Name:     "MEMO",
		Beginner: []coreconfig.ResourceLink{{Name: "a[b]c", URL: "https://example.com"}},
	})
	out := v.Resources()
	if !strings.Contains(out, `a\[b]c`) {
		t.Fatalf("link name not escaped: %q", out)
	}
}

func TestHelpMentionsChannelURLOnlyWhenSet(t *testing.T) {
	withURL := NewViews(coreconfig.ChannelConfig{Name: "MEMO", URL: "https://t.me/codewithmemo"})
	if !strings.Contains(withURL.Help(), "https://t.me/codewithmemo") {
		t.Fatal("configured channel URL missing from help")
	}
	withoutURL := NewViews(coreconfig.ChannelConfig{Name: "MEMO"})
	if strings.Contains(withoutURL.Help(), "join the channel") {
		t.Fatal("channel line rendered without a URL")
	}
}

func TestGreetingFallsBackWithoutName(t *testing.T) {
	v := NewViews(coreconfig.ChannelConfig{Name: "MEMO"})
	if !strings.Contains(v.Greeting(""), "Hi there!") {
		t.Fatal("expected fallback salutation")
	}
}
