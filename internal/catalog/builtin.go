package catalog

import "github.com/ZurcLeo/melzao-sub000/internal/domain"

// BaseHoneyForLevel is the unmultiplied honey value of a level's questions.
func BaseHoneyForLevel(level int) int {
	values := [...]int{10, 20, 40, 80, 160, 320, 640, 1250, 2500, 5000}
	if level < 1 || level > len(values) {
		return 0
	}
	return values[level-1]
}

// builtinByLevel returns the stock question pool, three per level. Hosts can
// extend or replace it with authored questions through the custom source.
func builtinByLevel() map[int][]domain.Question {
	byLevel := make(map[int][]domain.Question, domain.MaxLevel)
	for _, q := range builtinQuestions {
		q.HoneyValue = BaseHoneyForLevel(q.Level)
		q.Source = domain.SourceBuiltin
		byLevel[q.Level] = append(byLevel[q.Level], q)
	}
	return byLevel
}

var builtinQuestions = []domain.Question{
	{ID: "b-1-1", Level: 1, Text: "How many legs does a bee have?", Options: []string{"Four", "Six", "Eight", "Ten"}, CorrectAnswer: "Six"},
	{ID: "b-1-2", Level: 1, Text: "What do bees collect from flowers?", Options: []string{"Water", "Leaves", "Nectar", "Seeds"}, CorrectAnswer: "Nectar"},
	{ID: "b-1-3", Level: 1, Text: "Which of these is a primary color?", Options: []string{"Green", "Orange", "Blue", "Purple"}, CorrectAnswer: "Blue"},

	{ID: "b-2-1", Level: 2, Text: "What is the name of a bee's home?", Options: []string{"Nest", "Hive", "Den", "Burrow"}, CorrectAnswer: "Hive"},
	{ID: "b-2-2", Level: 2, Text: "How many continents are there on Earth?", Options: []string{"Five", "Six", "Seven", "Eight"}, CorrectAnswer: "Seven"},
	{ID: "b-2-3", Level: 2, Text: "Which planet is known as the Red Planet?", Options: []string{"Venus", "Mars", "Jupiter", "Saturn"}, CorrectAnswer: "Mars"},

	{ID: "b-3-1", Level: 3, Text: "Who painted the Mona Lisa?", Options: []string{"Michelangelo", "Raphael", "Leonardo da Vinci", "Donatello"}, CorrectAnswer: "Leonardo da Vinci"},
	{ID: "b-3-2", Level: 3, Text: "What is the largest ocean on Earth?", Options: []string{"Atlantic", "Indian", "Arctic", "Pacific"}, CorrectAnswer: "Pacific"},
	{ID: "b-3-3", Level: 3, Text: "Which gas do plants absorb from the air?", Options: []string{"Oxygen", "Carbon dioxide", "Nitrogen", "Hydrogen"}, CorrectAnswer: "Carbon dioxide"},

	{ID: "b-4-1", Level: 4, Text: "What is the only bee that can lay fertilized eggs?", Options: []string{"Worker", "Drone", "Queen", "Scout"}, CorrectAnswer: "Queen"},
	{ID: "b-4-2", Level: 4, Text: "In which country were the first modern Olympic Games held?", Options: []string{"Italy", "France", "Greece", "England"}, CorrectAnswer: "Greece"},
	{ID: "b-4-3", Level: 4, Text: "What is the chemical symbol for gold?", Options: []string{"Go", "Gd", "Ag", "Au"}, CorrectAnswer: "Au"},

	{ID: "b-5-1", Level: 5, Text: "How do honey bees communicate the location of food?", Options: []string{"Buzzing patterns", "Waggle dance", "Pheromone trails only", "Wing colors"}, CorrectAnswer: "Waggle dance"},
	{ID: "b-5-2", Level: 5, Text: "Which river is the longest in the world?", Options: []string{"Amazon", "Nile", "Yangtze", "Mississippi"}, CorrectAnswer: "Nile"},
	{ID: "b-5-3", Level: 5, Text: "What is the capital of Australia?", Options: []string{"Sydney", "Melbourne", "Canberra", "Perth"}, CorrectAnswer: "Canberra"},

	{ID: "b-6-1", Level: 6, Text: "Roughly how many flowers must bees visit to make one kilogram of honey?", Options: []string{"Forty thousand", "Four hundred thousand", "Four million", "Forty million"}, CorrectAnswer: "Four million"},
	{ID: "b-6-2", Level: 6, Text: "Which element has the atomic number 1?", Options: []string{"Helium", "Oxygen", "Hydrogen", "Carbon"}, CorrectAnswer: "Hydrogen"},
	{ID: "b-6-3", Level: 6, Text: "Who wrote the play Romeo and Juliet?", Options: []string{"Charles Dickens", "William Shakespeare", "Oscar Wilde", "Mark Twain"}, CorrectAnswer: "William Shakespeare"},

	{ID: "b-7-1", Level: 7, Text: "What is the scientific name of the western honey bee?", Options: []string{"Apis cerana", "Apis dorsata", "Apis mellifera", "Apis florea"}, CorrectAnswer: "Apis mellifera"},
	{ID: "b-7-2", Level: 7, Text: "In what year did humans first land on the Moon?", Options: []string{"1965", "1967", "1969", "1971"}, CorrectAnswer: "1969"},
	{ID: "b-7-3", Level: 7, Text: "Which country has the most natural lakes?", Options: []string{"Russia", "Canada", "Brazil", "Finland"}, CorrectAnswer: "Canada"},

	{ID: "b-8-1", Level: 8, Text: "At roughly what temperature do bees keep the brood nest?", Options: []string{"25 degrees Celsius", "30 degrees Celsius", "35 degrees Celsius", "40 degrees Celsius"}, CorrectAnswer: "35 degrees Celsius"},
	{ID: "b-8-2", Level: 8, Text: "Which philosopher tutored Alexander the Great?", Options: []string{"Socrates", "Plato", "Aristotle", "Epicurus"}, CorrectAnswer: "Aristotle"},
	{ID: "b-8-3", Level: 8, Text: "What is the smallest prime number greater than 100?", Options: []string{"101", "103", "107", "109"}, CorrectAnswer: "101"},

	{ID: "b-9-1", Level: 9, Text: "Which acid gives honey most of its natural acidity?", Options: []string{"Citric acid", "Gluconic acid", "Lactic acid", "Malic acid"}, CorrectAnswer: "Gluconic acid"},
	{ID: "b-9-2", Level: 9, Text: "Who proposed the three laws of planetary motion?", Options: []string{"Galileo Galilei", "Isaac Newton", "Johannes Kepler", "Nicolaus Copernicus"}, CorrectAnswer: "Johannes Kepler"},
	{ID: "b-9-3", Level: 9, Text: "Which treaty ended World War I?", Options: []string{"Treaty of Vienna", "Treaty of Versailles", "Treaty of Paris", "Treaty of Ghent"}, CorrectAnswer: "Treaty of Versailles"},

	{ID: "b-10-1", Level: 10, Text: "What enzyme do bees add to nectar to break sucrose into glucose and fructose?", Options: []string{"Amylase", "Invertase", "Catalase", "Protease"}, CorrectAnswer: "Invertase"},
	{ID: "b-10-2", Level: 10, Text: "Which mathematician proved Fermat's Last Theorem in 1994?", Options: []string{"Andrew Wiles", "Grigori Perelman", "Terence Tao", "John Nash"}, CorrectAnswer: "Andrew Wiles"},
	{ID: "b-10-3", Level: 10, Text: "What is the rarest naturally occurring element in the Earth's crust?", Options: []string{"Francium", "Astatine", "Technetium", "Promethium"}, CorrectAnswer: "Astatine"},
}
