package datagen

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ── pt_BR word pools ──

var firstNames = []string{
	"Ana", "Maria", "Júlia", "Beatriz", "Larissa", "Camila", "Letícia", "Mariana",
	"Fernanda", "Gabriela", "Isabela", "Sofia", "Helena", "Alice", "Laura", "Valentina",
	"Manuela", "Lívia", "Yasmin", "Luana", "Vitória", "Clara", "Cecília", "Lorena",
	"Rafaela", "Bianca", "Natália", "Emanuelly", "Heloísa", "Eduarda", "Lara", "Melissa",
	"João", "Pedro", "Lucas", "Gabriel", "Matheus", "Rafael", "Gustavo", "Felipe",
	"Guilherme", "Enzo", "Miguel", "Arthur", "Davi", "Bernardo", "Heitor", "Lorenzo",
	"Thiago", "Bruno", "Vinícius", "Leonardo", "Caio", "Daniel", "Eduardo", "Henrique",
	"Samuel", "Benjamin", "Otávio", "Nicolas", "Murilo", "Cauã", "Joaquim", "Vitor",
	"Antônio", "Francisco", "Luiz", "Marcelo", "Rodrigo", "Diego", "Igor", "Emanuel",
}

var lastNames = []string{
	"Silva", "Santos", "Oliveira", "Souza", "Rodrigues", "Ferreira", "Alves", "Pereira",
	"Lima", "Gomes", "Costa", "Ribeiro", "Martins", "Carvalho", "Almeida", "Lopes",
	"Soares", "Fernandes", "Vieira", "Barbosa", "Rocha", "Dias", "Nascimento", "Andrade",
	"Moreira", "Nunes", "Marques", "Machado", "Mendes", "Freitas", "Cardoso", "Ramos",
	"Gonçalves", "Santana", "Teixeira", "Araújo", "Pinto", "Correia", "Cavalcanti", "Monteiro",
	"Moura", "Azevedo", "Campos", "Peixoto", "Castro", "Rezende", "Farias", "Jesus",
	"Duarte", "Porto", "Sales", "Aragão", "Brandão", "Fogaça", "Cunha", "da Mata",
	"da Rosa", "da Luz", "da Conceição", "da Paz", "Viana", "Melo", "Siqueira", "Pires",
}

var emailDomains = []string{
	"gmail.com", "hotmail.com", "yahoo.com.br", "outlook.com", "bol.com.br",
	"uol.com.br", "ig.com.br", "terra.com.br", "live.com", "globo.com",
}

// Faker fabricates Brazilian personal data. It is not safe for concurrent use.
type Faker struct {
	rng *rand.Rand
}

// NewFaker returns a Faker drawing from rng.
func NewFaker(rng *rand.Rand) *Faker {
	return &Faker{rng: rng}
}

func (f *Faker) FirstName() string { return randomFrom(f.rng, firstNames) }
func (f *Faker) LastName() string  { return randomFrom(f.rng, lastNames) }

// Email builds an address from a fresh name pair, so it does not have to
// match the customer's own name.
func (f *Faker) Email() string {
	first := asciiFold(f.FirstName())
	last := asciiFold(f.LastName())

	var user string
	switch f.rng.Intn(5) {
	case 0:
		user = first + "." + last
	case 1:
		user = last + "." + first
	case 2:
		user = first + last
	case 3:
		user = fmt.Sprintf("%s%02d", first, f.rng.Intn(100))
	default:
		user = first[:1] + last
	}
	return user + "@" + randomFrom(f.rng, emailDomains)
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// asciiFold lowercases s, strips diacritics and drops anything that is not
// a letter or digit.
func asciiFold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
