package generate

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

var firstNames = []string{
	"Anna", "Maria", "Katarzyna", "Magdalena", "Agnieszka", "Joanna", "Zofia", "Julia", "Hanna", "Alicja",
	"Ewa", "Natalia", "Oliwia", "Laura", "Emma", "Sophie", "Mia", "Olivia", "Chloe", "Lena",
	"Jan", "Piotr", "Krzysztof", "Tomasz", "Pawel", "Michal", "Marcin", "Jakub", "Adam", "Kacper",
	"Filip", "Szymon", "Antoni", "Liam", "Noah", "Oliver", "Lucas", "Mateo", "Leon", "Elias",
}

var surnames = []string{
	"Nowak", "Kowalski", "Wisniewski", "Wojcik", "Kowalczyk", "Kaminski", "Lewandowski", "Zielinski",
	"Szymanski", "Wozniak", "Dabrowski", "Kozlowski", "Jankowski", "Mazur", "Kwiatkowski", "Krawczyk",
	"Smith", "Johnson", "Brown", "Taylor", "Miller", "Garcia", "Martin", "Bernard", "Muller", "Schmidt",
	"Rossi", "Russo", "Novak", "Horvat", "Svoboda", "Dvorak", "Petrov", "Jansen", "Larsen", "Tanaka",
}

var cityPrefixes = []string{
	"Nowa", "Stara", "Wielka", "Mala", "Gorna", "Dolna", "Biala", "Zielona", "North", "South",
	"East", "West", "Port", "Saint", "Bad", "Neu", "Alt", "Villa", "Monte", "Lake",
}

var cityRoots = []string{
	"Wola", "Gora", "Brzeg", "Most", "Dwor", "Pole", "Lake", "Haven", "Field", "Bridge",
	"Ford", "Burg", "Stadt", "Heim", "Rio", "Valle", "Mar", "Sela", "Grad", "Hill",
}

var streetNames = []string{
	"Lipowa", "Polna", "Lesna", "Sloneczna", "Krotka", "Szkolna", "Ogrodowa", "Kwiatowa", "Mickiewicza",
	"Kosciuszki", "Main", "Oak", "Maple", "Church", "Station", "Mill", "Park", "River", "High", "Garden",
}

var emailDomains = []string{"example.com", "mail.test", "inbox.test", "post.example", "fastmail.test"}

var messageWords = []string{
	"hej", "hi", "how", "are", "you", "coffee", "tomorrow", "weekend", "movie", "great", "profile",
	"photo", "love", "dog", "cat", "trip", "mountains", "sea", "music", "concert", "dinner", "maybe",
	"sure", "sounds", "good", "where", "when", "funny", "really", "nice", "meet", "soon", "today",
	"book", "pizza", "sushi", "walk", "park", "running", "cooking", "travel", "city", "work", "busy",
}

var searchDescriptions = []string{
	"Looking for someone to share long walks with",
	"Coffee first, then we will see",
	"Here for good conversations",
	"Ja nawet nie wiem, co tu wpisac...",
	"Adventure partner wanted",
	"Swipe right if you like dogs",
	"Not sure what I am looking for yet",
	"Ideally someone who can cook",
}

func pick(r *rand.Rand, words []string) string {
	return words[r.IntN(len(words))]
}

func cityName(r *rand.Rand) string {
	return pick(r, cityPrefixes) + " " + pick(r, cityRoots)
}

func streetAddress(r *rand.Rand) string {
	return fmt.Sprintf("%s %d", pick(r, streetNames), between(r, 1, 250))
}

func postalCode(r *rand.Rand) string {
	return fmt.Sprintf("%02d-%03d", r.IntN(100), r.IntN(1000))
}

// sentence joins between lo and hi words and capitalizes the first one.
func sentence(r *rand.Rand, lo, hi int) string {
	n := between(r, lo, hi)
	words := make([]string, n)
	for i := range words {
		words[i] = pick(r, messageWords)
	}
	s := strings.Join(words, " ")
	return strings.ToUpper(s[:1]) + s[1:]
}
