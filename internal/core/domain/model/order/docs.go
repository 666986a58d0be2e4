// Package order provides the ServiceOrder aggregate of the field-service engine and
// the state machine every order moves through.
//
// The package includes:
//   - ServiceOrder: the aggregate root holding identity, request data, status and assignment
//   - Status: the lifecycle state machine (Creada, Validada, Asignada, En Proceso, Completada, Cancelada)
//   - ServiceType: Instalación, Reparación or Retiro
//   - Execution: the technician's work record and the client's confirmation of it
//
// Key business rules:
//   - Status changes only through the ServiceOrder transition methods
//   - An order carries a technician exactly while Asignada, En Proceso or Completada
//   - completed-at is set exactly while Completada
//   - Rejection and cancellation reasons are first-class fields
//   - Stored status spellings are normalized by ParseStatus at the persistence boundary
package order
