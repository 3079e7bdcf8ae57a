package dto

type MenuItemResponse struct {
	ID        uint   `json:"id"`
	Nombre    string `json:"nombre"`
	Precio    int64  `json:"precio"`
	Categoria string `json:"categoria"`
	Tipo      string `json:"tipo"`
}

type MenuCategoriaResponse struct {
	Categoria string             `json:"categoria"`
	Productos []MenuItemResponse `json:"productos"`
}

type MenuResponse struct {
	Categorias []MenuCategoriaResponse `json:"categorias"`
}

// ProductoCatalogo is one entry of a catalog seed file.
type ProductoCatalogo struct {
	Nombre    string `yaml:"nombre"    json:"nombre"`
	Precio    int64  `yaml:"precio"    json:"precio"`
	Categoria string `yaml:"categoria" json:"categoria"`
	Tipo      string `yaml:"tipo"      json:"tipo"`
}

type CatalogoArchivo struct {
	Productos []ProductoCatalogo `yaml:"productos"`
}

// SincronizacionResponse reports a catalog import.
type SincronizacionResponse struct {
	Actualizados int   `json:"actualizados"`
	Desactivados int64 `json:"desactivados"`
}
