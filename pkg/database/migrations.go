package database

// Migrate runs database migrations for the provided models.
//
// The order of models matters when foreign keys are involved; use
// pkg/modelconf to compute a dependency-respecting order automatically.
func (d *Database) Migrate(models ...interface{}) error {
	return d.DB().AutoMigrate(models...)
}
