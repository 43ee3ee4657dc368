// Package fixtures provides test data factories for the Iglesia API.
//
// # Factory Pattern
//
// Create a factory over any document store:
//
//	f := fixtures.New(testdb.Memory(t))
//
// # Creating Test Data
//
//	user := f.CreateUser(t)                    // password fixtures.DefaultPassword
//	members := f.CreateMembers(t, "Ana", "Luis")
//	group := f.CreateGroup(t)
//	f.Link(t, model.MemberGroups, members[0].ID, group.ID, "Lider")
//
// # Customization
//
// Use option functions for customization:
//
//	m := f.CreateMember(t, fixtures.WithNombre("Juana"))
//	c := f.CreateCourse(t, func(c *model.Course) { c.Estado = model.EstadoEnCurso })
//
// Unique names are generated automatically when none is given.
package fixtures
