package content

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zellyn/pylearn/internal/curriculum"
	pyerrors "github.com/zellyn/pylearn/internal/errors"
)

// Topic is the display text a generic generator fills its template with.
type Topic struct {
	// Name is the topic as a heading ("Циклы").
	Name string `yaml:"name"`
	// Genitive is the name in the genitive case ("циклов"), used after
	// "принципы", "задачи" and the like.
	Genitive string `yaml:"genitive,omitempty"`
	// Description is a short phrase about the topic's content.
	Description string `yaml:"description"`
	// Snippet is optional sample code.
	Snippet string `yaml:"snippet,omitempty"`
}

// TopicMapping maps lesson ids to topics. It is immutable once built.
type TopicMapping struct {
	topics map[string]Topic
}

// NewTopicMapping copies topics into a mapping.
func NewTopicMapping(topics map[string]Topic) TopicMapping {
	return TopicMapping{topics: maps.Clone(topics)}
}

// Get returns the topic recorded for id.
func (m TopicMapping) Get(id string) (Topic, bool) {
	t, ok := m.topics[id]
	return t, ok
}

// Len is the number of recorded topics.
func (m TopicMapping) Len() int {
	return len(m.topics)
}

// For returns the topic for id, or the default topic of the lesson type when
// none is recorded.
func (m TopicMapping) For(id string, t curriculum.LessonType) Topic {
	if topic, ok := m.topics[id]; ok {
		return topic
	}
	return DefaultTopic(t)
}

// Merge returns a mapping with other's entries layered over m's.
func (m TopicMapping) Merge(other TopicMapping) TopicMapping {
	out := maps.Clone(m.topics)
	if out == nil {
		out = make(map[string]Topic, len(other.topics))
	}
	maps.Copy(out, other.topics)
	return TopicMapping{topics: out}
}

// LoadTopics reads a YAML file of id -> topic.
func LoadTopics(path string) (TopicMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TopicMapping{}, pyerrors.NewIOError("read", path, err)
	}
	var topics map[string]Topic
	if err := yaml.Unmarshal(data, &topics); err != nil {
		return TopicMapping{}, pyerrors.NewParseError("YAML", path, err)
	}
	for id, t := range topics {
		if t.Name == "" {
			return TopicMapping{}, pyerrors.NewValidationError(fmt.Sprintf("topics[%s].name", id), "", "topic name is required")
		}
	}
	return NewTopicMapping(topics), nil
}

var defaultTopics = map[curriculum.LessonType]Topic{
	curriculum.TypeAlgorithm: {
		Name:        "Алгоритмы",
		Genitive:    "алгоритмов",
		Description: "решение задач",
		Snippet:     "# Пример алгоритма\nnumbers = [5, 3, 8, 1]\nprint(max(numbers))",
	},
	curriculum.TypeLanguage: {
		Name:        "Python",
		Genitive:    "Python",
		Description: "основы Python",
		Snippet:     "print(\"Hello\")",
	},
	curriculum.TypeExamBasic: {
		Name:        "Задачи ОГЭ",
		Genitive:    "задач ОГЭ",
		Description: "типовые задачи ОГЭ по информатике",
		Snippet:     "# Напиши своё решение здесь\n",
	},
	curriculum.TypeExamAdvanced: {
		Name:        "Задачи ЕГЭ",
		Genitive:    "задач ЕГЭ",
		Description: "сложные задачи ЕГЭ по информатике",
		Snippet:     "# Напиши оптимальное решение\n# Учитывай граничные случаи\n# Тестируй на примерах\n",
	},
}

var genericTopic = Topic{
	Name:        "Python",
	Genitive:    "Python",
	Description: "важная тема по программированию на Python",
}

// DefaultTopic is the stand-in topic of a lesson type.
func DefaultTopic(t curriculum.LessonType) Topic {
	if topic, ok := defaultTopics[t]; ok {
		return topic
	}
	return genericTopic
}

// DefaultTopics returns the built-in topic tables.
func DefaultTopics() TopicMapping {
	all := make(map[string]Topic, len(algorithmTopics)+len(languageTopics)+len(examTopics))
	maps.Copy(all, algorithmTopics)
	maps.Copy(all, languageTopics)
	maps.Copy(all, examTopics)
	return TopicMapping{topics: all}
}

var algorithmTopics = map[string]Topic{
	"algo-02": {"Блок-схемы", "блок-схем", "графическое представление алгоритмов", "# Блок-схема в виде кода\nx = 7\nif x % 2 == 0:\n    print(\"чётное\")\nelse:\n    print(\"нечётное\")"},
	"algo-03": {"Линейные алгоритмы", "линейных алгоритмов", "последовательное выполнение команд", "a = 3\nb = 4\nc = (a ** 2 + b ** 2) ** 0.5\nprint(c)"},
	"algo-04": {"Ветвления", "ветвлений", "условные операторы и выбор", "age = 14\nif age >= 14:\n    print(\"Можно получить паспорт\")\nelse:\n    print(\"Ещё рано\")"},
	"algo-05": {"Циклы", "циклов", "повторение действий", "for i in range(1, 6):\n    print(i * i)"},
	"algo-06": {"Поиск", "поиска", "линейный и бинарный поиск", "def linear_search(items, target):\n    for i, item in enumerate(items):\n        if item == target:\n            return i\n    return -1\n\nprint(linear_search([4, 8, 15, 16], 15))"},
	"algo-07": {"Сортировки", "простых сортировок", "пузырьковая и сортировка выбором", "def bubble_sort(a):\n    n = len(a)\n    for i in range(n):\n        for j in range(n - 1 - i):\n            if a[j] > a[j + 1]:\n                a[j], a[j + 1] = a[j + 1], a[j]\n    return a\n\nprint(bubble_sort([5, 2, 9, 1]))"},
	"algo-08": {"Быстрые сортировки", "быстрых сортировок", "QuickSort и MergeSort", "def quick_sort(a):\n    if len(a) <= 1:\n        return a\n    pivot = a[len(a) // 2]\n    left = [x for x in a if x < pivot]\n    mid = [x for x in a if x == pivot]\n    right = [x for x in a if x > pivot]\n    return quick_sort(left) + mid + quick_sort(right)\n\nprint(quick_sort([3, 6, 1, 8, 2]))"},
	"algo-09": {"Последовательности", "обработки последовательностей", "суммы, средние, фильтрация", "numbers = [3, 7, 2, 9, 4]\nprint(sum(numbers) / len(numbers))\nprint([x for x in numbers if x > 3])"},
	"algo-10": {"Числа", "работы с числами", "простые числа, НОД, НОК", "def gcd(a, b):\n    while b:\n        a, b = b, a % b\n    return a\n\nprint(gcd(48, 18))"},
	"algo-11": {"Строки", "строковых алгоритмов", "поиск подстрок, палиндромы", "word = \"шалаш\"\nprint(word == word[::-1])"},
	"algo-12": {"ДП основы", "динамического программирования", "мемоизация и оптимизация", "fib = [0, 1]\nfor i in range(2, 20):\n    fib.append(fib[i - 1] + fib[i - 2])\nprint(fib[19])"},
	"algo-13": {"ДП продвинутое", "сложного ДП", "задачи оптимизации", "# Число путей в сетке 5x5\nn = 5\ndp = [[1] * n for _ in range(n)]\nfor i in range(1, n):\n    for j in range(1, n):\n        dp[i][j] = dp[i - 1][j] + dp[i][j - 1]\nprint(dp[n - 1][n - 1])"},
	"algo-14": {"Жадные алгоритмы", "жадных алгоритмов", "локальные оптимумы", "coins = [10, 5, 2, 1]\namount = 28\nresult = []\nfor c in coins:\n    while amount >= c:\n        amount -= c\n        result.append(c)\nprint(result)"},
	"algo-15": {"Перебор", "полного перебора", "перестановки и сочетания", "from itertools import permutations\nfor p in permutations(\"абв\"):\n    print(\"\".join(p))"},
	"advanced-06": {"Сложность алгоритмов", "сложности алгоритмов", "оценка O-большое", "# O(n): один проход по списку\ndef total(items):\n    s = 0\n    for x in items:\n        s += x\n    return s"},
}

var languageTopics = map[string]Topic{
	"python-02": {"Переменные", "переменных", "имена для хранения значений", "name = \"Аня\"\nage = 13\nprint(name, age)"},
	"python-03": {"Типы данных", "типов данных", "int, float, str, bool", "print(type(5))"},
	"python-04": {"Арифметические операции", "арифметических операций", "+, -, *, /, //, %, **", "print(10 + 5)\nprint(10 ** 2)"},
	"python-05": {"Ввод/вывод", "ввода и вывода", "input() и print()", "name = input(\"Имя: \")\nprint(\"Привет,\", name)"},
	"python-06": {"Условия if", "условий", "if, elif, else", "x = 10\nif x > 5:\n    print(\"Больше 5\")"},
	"python-07": {"Логические операции", "логических операций", "and, or, not", "x = 5\nif x > 0 and x < 10:\n    print(\"От 0 до 10\")"},
	"python-08": {"Цикл while", "цикла while", "while условие", "i = 0\nwhile i < 5:\n    print(i)\n    i += 1"},
	"python-09": {"Цикл for", "цикла for", "for i in range()", "for i in range(5):\n    print(i)"},
	"python-10": {"Строки", "строк", "методы строк", "text = \"Hello\"\nprint(text.upper())\nprint(text[0])"},
	"python-11": {"Списки - основы", "списков", "создание и индексация", "numbers = [1, 2, 3, 4, 5]\nprint(numbers[0])"},
	"python-12": {"Списки - методы", "методов списков", "append, remove, sort", "lst = [3, 1, 2]\nlst.sort()\nprint(lst)"},
	"python-13": {"Двумерные списки", "двумерных списков", "матрицы", "matrix = [[1, 2], [3, 4]]\nprint(matrix[0][1])"},
	"python-14": {"Кортежи", "кортежей", "неизменяемые последовательности", "t = (1, 2, 3)\nprint(t[0])"},
	"python-15": {"Множества", "множеств", "уникальные элементы", "s = {1, 2, 3}\ns.add(4)\nprint(s)"},
	"python-16": {"Словари - основы", "словарей", "ключ: значение", "d = {\"name\": \"Иван\", \"age\": 14}\nprint(d[\"name\"])"},
	"python-17": {"Словари - методы", "методов словарей", "keys(), values(), items()", "d = {\"a\": 1}\nprint(d.keys())"},
	"python-18": {"Функции", "функций", "def, return", "def hello():\n    print(\"Привет!\")\n\nhello()"},
	"python-19": {"Параметры", "параметров", "аргументы функций", "def greet(name):\n    print(\"Привет,\", name)\n\ngreet(\"Оля\")"},
	"python-20": {"Return", "возврата значений", "возврат значений", "def add(a, b):\n    return a + b\n\nprint(add(2, 3))"},
	"python-21": {"Область видимости", "области видимости", "локальные и глобальные", "x = 10\ndef func():\n    x = 5\n    print(x)\n\nfunc()\nprint(x)"},
	"python-22": {"Рекурсия", "рекурсии", "функция вызывает себя", "def factorial(n):\n    if n == 1:\n        return 1\n    return n * factorial(n - 1)\n\nprint(factorial(5))"},
	"python-23": {"Lambda", "lambda-функций", "анонимные функции", "square = lambda x: x ** 2\nprint(square(5))"},
	"python-24": {"Чтение файлов", "чтения файлов", "open(), read()", "with open(\"file.txt\") as f:\n    content = f.read()"},
	"python-25": {"Запись в файлы", "записи в файлы", "write()", "with open(\"file.txt\", \"w\") as f:\n    f.write(\"Hello\")"},
	"python-26": {"Обработка текста", "обработки текста", "split(), join()", "text = \"a b c\"\nwords = text.split()\nprint(\"-\".join(words))"},
	"python-27": {"CSV файлы", "CSV файлов", "модуль csv", "import csv\n# работа с CSV"},
	"python-28": {"Двоичная система", "двоичной системы", "bin(), перевод чисел", "print(bin(10))\nprint(int(\"1010\", 2))"},
	"python-29": {"8 и 16 системы", "8-й и 16-й систем", "oct(), hex()", "print(hex(255))\nprint(oct(8))"},
	"python-30": {"Арифметика СС", "арифметики в СС", "операции в разных СС", "a = int(\"101\", 2)\nb = int(\"11\", 2)\nprint(bin(a + b))"},
	"python-31": {"СС в Python", "систем счисления в Python", "функции преобразования", "print(int(\"FF\", 16))"},
	"python-32": {"Задачи ЕГЭ", "задач ЕГЭ", "типовые задачи", "# Сколько единиц в двоичной записи числа?\nprint(bin(2 ** 10 - 1).count(\"1\"))"},
	"python-33": {"AND, OR, NOT", "логических операций", "логика", "print(True and False)\nprint(not True)"},
	"python-34": {"Выражения", "логических выражений", "сложная логика", "x = 5\nresult = (x > 0) and (x < 10)\nprint(result)"},
	"python-35": {"Логика в коде", "логики в коде", "применение", "a, b = 3, 4\nif (a > 0) and (b > 0):\n    print(\"Оба положительные\")"},
	"python-36": {"Логические функции", "логических функций", "таблицы истинности", "for a in (0, 1):\n    for b in (0, 1):\n        print(a, b, int(a and not b))"},
	"python-37": {"Задачи логики", "задач логики", "ЕГЭ по логике", "# Решение логических задач\nprint(\"x y z F\")"},
	"python-38": {"Графы", "графов", "представление графов", "graph = {1: [2, 3], 2: [4], 3: [4], 4: []}\nprint(graph[1])"},
	"python-39": {"BFS", "поиска в ширину", "поиск в ширину", "from collections import deque\n\nqueue = deque([1])\nprint(queue.popleft())"},
	"python-40": {"DFS", "поиска в глубину", "поиск в глубину", "def dfs(graph, start, visited=None):\n    if visited is None:\n        visited = set()\n    visited.add(start)\n    for v in graph[start]:\n        if v not in visited:\n            dfs(graph, v, visited)\n    return visited"},
	"python-41": {"Деревья", "деревьев", "бинарные деревья", "class Node:\n    def __init__(self, value):\n        self.value = value\n        self.left = None\n        self.right = None"},
	"python-42": {"Алгоритмы на графах", "алгоритмов на графах", "Дейкстра, кратчайшие пути", "import heapq\n\nheap = [(0, \"A\")]\nprint(heapq.heappop(heap))"},
	"python-43": {"Графы ЕГЭ", "задач с графами", "задачи с графами", "# Подсчёт путей из A в B\npaths = {\"A\": 1}\nprint(paths)"},
	"advanced-01": {"Классы и объекты", "классов", "class, __init__, self", "class Cat:\n    def __init__(self, name):\n        self.name = name\n\n    def meow(self):\n        print(self.name, \"говорит мяу\")\n\nCat(\"Мурка\").meow()"},
	"advanced-02": {"Наследование", "наследования", "родительские и дочерние классы", "class Animal:\n    def sound(self):\n        return \"...\"\n\nclass Dog(Animal):\n    def sound(self):\n        return \"Гав\"\n\nprint(Dog().sound())"},
	"advanced-03": {"Исключения", "исключений", "try, except, finally", "try:\n    print(10 / 0)\nexcept ZeroDivisionError:\n    print(\"Делить на ноль нельзя\")"},
	"advanced-04": {"Модули", "модулей", "import и стандартная библиотека", "import math\nprint(math.sqrt(16))"},
	"advanced-05": {"Регулярные выражения", "регулярных выражений", "модуль re", "import re\nprint(re.findall(r\"\\d+\", \"в 2024 году 12 месяцев\"))"},
	"advanced-07": {"Олимпиадные задачи", "олимпиадных задач", "эффективные решения", "n = 10\nprint(sum(range(1, n + 1)))"},
}

var examTopics = map[string]Topic{
	"oge-01": {"Исполнители алгоритмов", "исполнителей", "Робот, Черепаха и Кузнечик", "# Кузнечик: прыжки +3 и -2\npos = 0\nfor step in (3, 3, -2):\n    pos += step\nprint(pos)"},
	"oge-02": {"Анализ программ", "анализа программ", "трассировка и подсчёт результата", "s = 0\nfor i in range(1, 5):\n    s += i\nprint(s)"},
	"oge-03": {"Простые задачи", "простых задач", "ввод, условия и циклы", "n = int(input())\nprint(n * 2)"},
	"oge-04": {"Массивы", "массивов", "обработка последовательностей чисел", "n = int(input())\ncount = 0\nfor _ in range(n):\n    x = int(input())\n    if x % 3 == 0:\n        count += 1\nprint(count)"},
	"oge-05": {"Строки", "строк", "подсчёт символов и слов", "s = input()\nprint(s.count(\"а\"))"},
	"oge-06": {"Файлы", "файлов", "поиск файлов и форматы", "# Маска *.txt подходит к файлам с расширением txt"},
	"oge-07": {"Электронные таблицы", "электронных таблиц", "формулы и функции", "# =СУММ(A1:A10) в Python\nprint(sum([1, 2, 3]))"},
	"oge-08": {"Пробный экзамен", "пробного экзамена", "все задания ОГЭ", "# Реши задачи пробного варианта\n"},
	"ege-01": {"Кодирование информации", "кодирования", "объём информации и алфавиты", "import math\nprint(math.ceil(math.log2(33)))"},
	"ege-02": {"Логика и множества", "логики и множеств", "таблицы истинности и отрезки", "for x in (0, 1):\n    for y in (0, 1):\n        print(x, y, int((not x) or y))"},
	"ege-03": {"Системы счисления", "систем счисления", "переводы и подсчёт цифр", "print(bin(4 ** 10 + 2 ** 5).count(\"1\"))"},
	"ege-04": {"Алгоритмы", "алгоритмов", "исполнители и анализ алгоритмов", "def f(n):\n    return n + 1 if n < 10 else n\nprint(f(3))"},
	"ege-05": {"Программирование простое", "простых программ", "задача 22: процессы и время", "tasks = {1: 3, 2: 4}\nprint(max(tasks.values()))"},
	"ege-06": {"Программирование среднее", "задач средней сложности", "задача 24: обработка строк", "s = \"XYZXXYZ\"\nbest = cur = 1\nfor i in range(1, len(s)):\n    cur = cur + 1 if s[i] != s[i - 1] else 1\n    best = max(best, cur)\nprint(best)"},
	"ege-07": {"Программирование сложное", "сложных задач", "задача 25: делители и маски", "for n in range(10, 40):\n    divs = [d for d in range(2, n) if n % d == 0]\n    if len(divs) == 2:\n        print(n, divs)"},
	"ege-08": {"Теория игр", "теории игр", "выигрышные стратегии", "from functools import lru_cache\n\n@lru_cache(None)\ndef win(n):\n    return n >= 20 or any(not win(n + k) for k in (1, 2))\n\nprint(win(10))"},
	"ege-09": {"Рекурсия", "рекурсии", "задача 23: число программ", "def count(a, b):\n    if a > b:\n        return 0\n    if a == b:\n        return 1\n    return count(a + 1, b) + count(a * 2, b)\n\nprint(count(1, 10))"},
	"ege-10": {"Динамическое программирование", "динамического программирования", "задача 27: оптимальные подпоследовательности", "nums = [1, -2, 3, 4, -1]\nbest = cur = 0\nfor x in nums:\n    cur = max(0, cur + x)\n    best = max(best, cur)\nprint(best)"},
	"ege-11": {"Обработка больших данных", "обработки больших данных", "задача 26: сортировка и жадность", "sizes = sorted([50, 20, 30, 10])\nfree, count = 70, 0\nfor s in sizes:\n    if s <= free:\n        free -= s\n        count += 1\nprint(count)"},
	"ege-12": {"Пробный экзамен", "пробного экзамена", "все задания ЕГЭ", "# Реши задачи пробного варианта\n"},
}
