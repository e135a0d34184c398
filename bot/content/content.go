// Package content renders the static channel views shown by the menu
// callbacks. All text is driven by the channel section of the config;
// missing fields fall back to the stock channel profile.
package content

import (
	"fmt"
	"strings"

	coreconfig "github.com/codewithmemo/memobot/core/config"
	"github.com/codewithmemo/memobot/core/telegram/format"
)

var defaultTopics = []string{"Machine Learning", "Python", "Deep Learning", "Data Science", "AI"}

var defaultBeginner = []coreconfig.ResourceLink{
	{Name: "Python Basics", URL: "https://yourchannel.com/python-basics"},
	{Name: "ML Introduction", URL: "https://yourchannel.com/ml-intro"},
}

var defaultIntermediate = []coreconfig.ResourceLink{
	{Name: "Data Visualization", URL: "https://yourchannel.com/data-viz"},
	{Name: "ML Algorithms", URL: "https://yourchannel.com/ml-algorithms"},
}

const defaultDescription = "A collaborative hub for programmers across different domains to learn, " +
	"share, and grow together. The channel focuses on Machine Learning, Artificial Intelligence, " +
	"and Web Development, tackling tricky real-world coding problems along the way."

const defaultContactCard = "👨‍💼 Contact Admin 👨‍💼\n\n" +
	"Reach out to the channel admin for anything the bot cannot answer."

// Views renders the menu texts for one channel profile.
type Views struct {
	cfg coreconfig.ChannelConfig
}

// NewViews builds a renderer over the configured channel section.
func NewViews(cfg coreconfig.ChannelConfig) *Views {
	return &Views{cfg: cfg}
}

// Greeting is the /start salutation shown above the menu keyboard.
func (v *Views) Greeting(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hi %s! 👋\n\nWelcome to %s Bot!\n\n"+
		"I'm here to help you with everything related to machine learning and programming.",
		name, v.cfg.Name)
}

// About renders the channel description with a bullet list of topics.
func (v *Views) About() string {
	desc := v.cfg.Description
	if strings.TrimSpace(desc) == "" {
		desc = defaultDescription
	}
	topics := v.cfg.Topics
	if len(topics) == 0 {
		topics = defaultTopics
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📢 About %s 📢\n\n%s\n\nTopics we cover:\n", v.cfg.Name, desc)
	for _, topic := range topics {
		fmt.Fprintf(&b, "• %s\n", topic)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Resources renders the beginner and intermediate link tiers as Markdown.
func (v *Views) Resources() string {
	beginner := v.cfg.Beginner
	if len(beginner) == 0 {
		beginner = defaultBeginner
	}
	intermediate := v.cfg.Intermediate
	if len(intermediate) == 0 {
		intermediate = defaultIntermediate
	}
	var b strings.Builder
	b.WriteString("📚 *Resources*\n\n*Beginner:*\n")
	for _, r := range beginner {
		fmt.Fprintf(&b, "[%s](%s)\n", linkName(r.Name), r.URL)
	}
	b.WriteString("\n*Intermediate:*\n")
	for _, r := range intermediate {
		fmt.Fprintf(&b, "[%s](%s)\n", linkName(r.Name), r.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}

// linkName escapes configured link labels so stray markdown characters
// cannot break the rendered list.
func linkName(name string) string {
	escaped, err := format.EscapeMarkdown(name, format.MarkdownV1)
	if err != nil {
		return name
	}
	return escaped
}

// Contact renders the admin contact card.
func (v *Views) Contact() string {
	if strings.TrimSpace(v.cfg.ContactCard) != "" {
		return v.cfg.ContactCard
	}
	return defaultContactCard
}

// Help renders the command overview, linking the channel when configured.
func (v *Views) Help() string {
	var b strings.Builder
	b.WriteString("🆘 *Help Menu*\n\n" +
		"Here are the available commands and options:\n" +
		"/start - Show the main menu\n" +
		"/help - Show this help message\n\n" +
		"You can also use the buttons to:\n" +
		"• Learn about the channel\n" +
		"• Access learning resources\n" +
		"• Ask a programming or ML question\n" +
		"• Contact the admin\n\n" +
		"To ask a question, click 'Ask Question' and type your question.\n" +
		"If you need further assistance, contact the admin.")
	if strings.TrimSpace(v.cfg.URL) != "" {
		fmt.Fprintf(&b, "\nAnd also join the channel(%s) for more updates.", v.cfg.URL)
	}
	return b.String()
}

// Stats renders the admin-only channel overview.
func (v *Views) Stats(pending int, admins int) string {
	topics := v.cfg.Topics
	if len(topics) == 0 {
		topics = defaultTopics
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s overview\n\n", v.cfg.Name)
	fmt.Fprintf(&b, "Pending questions: %d\n", pending)
	fmt.Fprintf(&b, "Admins on roster: %d\n", admins)
	fmt.Fprintf(&b, "Topics: %s", strings.Join(topics, ", "))
	if strings.TrimSpace(v.cfg.URL) != "" {
		fmt.Fprintf(&b, "\nChannel: %s", v.cfg.URL)
	}
	return b.String()
}
