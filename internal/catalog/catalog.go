package catalog

import (
	"strings"
	"sync"

	"agroshop_back_end/internal/models"
)

// CategoryAll est la catégorie sentinelle : aucun filtrage.
const CategoryAll = "All"

// Categories est l'ensemble fermé des catégories de la boutique.
var Categories = []string{"Seeds", "Fertilizers", "Equipment", "Pesticides", "Tools"}

// ValidCategory vérifie qu'une catégorie appartient à l'ensemble autorisé
// (la sentinelle "All" n'est pas une catégorie de produit).
func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Store détient la liste complète des produits en mémoire.
// La vue filtrée est recalculée à chaque appel, jamais mise en cache,
// et ne mute jamais la liste sous-jacente.
type Store struct {
	mu       sync.RWMutex
	products []models.Product
}

func NewStore() *Store {
	return &Store{}
}

// Load remplace l'ensemble des produits. L'ordre d'insertion est conservé.
func (s *Store) Load(products []models.Product) {
	cp := make([]models.Product, len(products))
	copy(cp, products)

	s.mu.Lock()
	s.products = cp
	s.mu.Unlock()
}

// Products retourne une copie de la liste complète.
func (s *Store) Products() []models.Product {
	return s.Filter(CategoryAll, "")
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Get retrouve un produit par son id.
func (s *Store) Get(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID.String() == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Filter applique les deux prédicats en conjonction :
//   - catégorie : "All" (ou vide) laisse tout passer, sinon égalité stricte
//   - texte : requête vide laisse tout passer, sinon sous-chaîne
//     insensible à la casse sur le nom OU la description
//
// Le résultat est toujours un sous-ensemble frais, dans l'ordre du Load.
func (s *Store) Filter(category, query string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	q := strings.ToLower(strings.TrimSpace(query))

	for _, p := range s.products {
		if !matchCategory(p, category) {
			continue
		}
		if !matchQuery(p, q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchCategory(p models.Product, category string) bool {
	if category == "" || category == CategoryAll {
		return true
	}
	return p.Category == category
}

func matchQuery(p models.Product, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}
