package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Faker produces plausible human-readable values of a named semantic
// kind. All draws go through the owned *rand.Rand, so a fixed seed plus
// a fixed call order yields fixed output. Now anchors date ranges; it is
// exported so tests can pin it.
type Faker struct {
	rand *rand.Rand
	Now  time.Time
}

func NewFaker(rng *rand.Rand) *Faker {
	return &Faker{
		rand: rng,
		Now:  time.Now().Truncate(24 * time.Hour),
	}
}

var (
	firstNames = []string{"John", "Jane", "Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry", "Isabel", "Jack", "Karen", "Liam", "Mona", "Noah", "Olivia", "Peter", "Quinn", "Rosa"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Lopez", "Wilson", "Anderson", "Taylor", "Thomas", "Moore", "Martin", "Lee", "Clark", "Walker"}
	cities     = []string{"Springfield", "Riverside", "Franklin", "Greenville", "Bristol", "Clinton", "Fairview", "Salem", "Madison", "Georgetown"}
	states     = []string{"California", "Texas", "Florida", "New York", "Ohio", "Illinois", "Georgia", "Michigan", "Oregon", "Colorado"}
	countries  = []string{"United States", "Canada", "Mexico", "Brazil", "Germany", "France", "Spain", "Italy", "Japan", "Australia"}
	streets    = []string{"Main Street", "Oak Avenue", "Maple Drive", "Cedar Lane", "Elm Street", "Park Road", "Lake View", "Hill Crest", "River Bend", "Sunset Boulevard"}
	companies  = []string{"Acme Corp", "Globex", "Initech", "Umbrella Systems", "Stark Industries", "Wayne Enterprises", "Hooli", "Vandelay Industries", "Wonka Works", "Tyrell Analytics"}
	jobs       = []string{"Software Engineer", "Data Analyst", "Product Manager", "Accountant", "Sales Representative", "Graphic Designer", "Nurse", "Electrician", "Teacher", "Chef"}
	words      = []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta", "iota", "kappa", "lambda", "sigma", "omega", "vector", "matrix", "kernel", "cursor", "buffer", "socket", "ledger"}
	domains    = []string{"example.com", "test.com", "demo.com", "mail.com"}
	sentences  = []string{
		"This is a sample text generated for testing purposes.",
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
		"The quick brown fox jumps over the lazy dog.",
		"Software development requires careful planning and execution.",
		"Database design is crucial for application performance.",
		"Synthetic data keeps sensitive records out of test environments.",
	}
)

func (f *Faker) pick(list []string) string {
	return list[f.rand.Intn(len(list))]
}

func (f *Faker) Name() string {
	return f.pick(firstNames) + " " + f.pick(lastNames)
}

func (f *Faker) FirstName() string { return f.pick(firstNames) }
func (f *Faker) LastName() string  { return f.pick(lastNames) }

func (f *Faker) Email() string {
	return fmt.Sprintf("%s.%s%d@%s",
		strings.ToLower(f.pick(firstNames)),
		strings.ToLower(f.pick(lastNames)),
		f.rand.Intn(1000),
		f.pick(domains))
}

func (f *Faker) Phone() string {
	return fmt.Sprintf("+1-%03d-%03d-%04d", f.rand.Intn(1000), f.rand.Intn(1000), f.rand.Intn(10000))
}

func (f *Faker) Street() string {
	return fmt.Sprintf("%d %s", f.rand.Intn(9999)+1, f.pick(streets))
}

func (f *Faker) Address() string {
	return fmt.Sprintf("%s, %s, %s %05d", f.Street(), f.pick(cities), f.pick(states), f.rand.Intn(100000))
}

func (f *Faker) City() string    { return f.pick(cities) }
func (f *Faker) State() string   { return f.pick(states) }
func (f *Faker) Country() string { return f.pick(countries) }

func (f *Faker) Zip() string {
	return fmt.Sprintf("%05d", f.rand.Intn(100000))
}

func (f *Faker) Company() string { return f.pick(companies) }
func (f *Faker) Job() string     { return f.pick(jobs) }

func (f *Faker) URL() string {
	return fmt.Sprintf("https://%s/%s/%d", f.pick(domains), f.Word(), f.rand.Intn(1000))
}

func (f *Faker) Username() string {
	return fmt.Sprintf("%s%d", strings.ToLower(f.pick(firstNames)), f.rand.Intn(10000))
}

func (f *Faker) Password() string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%"
	b := make([]byte, 12)
	for i := range b {
		b[i] = chars[f.rand.Intn(len(chars))]
	}
	return string(b)
}

func (f *Faker) Word() string { return f.pick(words) }

func (f *Faker) Sentence() string { return f.pick(sentences) }

// Text returns prose truncated to maxLen characters.
func (f *Faker) Text(maxLen int) string {
	if maxLen <= 0 {
		maxLen = 50
	}
	var b strings.Builder
	for b.Len() < maxLen {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.Sentence())
	}
	return b.String()[:maxLen]
}

const lookbackDays = 5 * 365

// Date returns a random date within the last five years.
func (f *Faker) Date() string {
	return f.Now.AddDate(0, 0, -f.rand.Intn(lookbackDays)).Format("2006-01-02")
}

// DateTime returns a random timestamp within the last five years.
func (f *Faker) DateTime() time.Time {
	seconds := int64(f.rand.Intn(lookbackDays)) * 86400
	seconds += int64(f.rand.Intn(86400))
	return f.Now.Add(-time.Duration(seconds) * time.Second)
}

// TimeOfDay returns a random wall-clock time.
func (f *Faker) TimeOfDay() string {
	return fmt.Sprintf("%02d:%02d:%02d", f.rand.Intn(24), f.rand.Intn(60), f.rand.Intn(60))
}
