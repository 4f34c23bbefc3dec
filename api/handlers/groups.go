package handlers

import (
	"net/http"

	services "github.com/planpal/planpal-services/api/services"
)

// @Summary List groups
// @Description Groups the caller owns or belongs to.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Group
// @Failure 401 {object} models.Response
// @Router /api/groups [get]
func GetGroups(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetGroupsService(w, r)
	}
}

// @Summary Create a group
// @Description The caller becomes the owner. Members may be given by user id or email.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param group body models.GroupRequest true "Group"
// @Success 201 {object} models.Group
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /api/groups [post]
func CreateGroup(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateGroupService(w, r)
	}
}

// @Summary Get a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param group-id path string true "Group ID"
// @Success 200 {object} models.Group
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /api/groups/{group-id} [get]
func GetGroup(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetGroupService(w, r)
	}
}

// @Summary Update a group
// @Description Owner or group admins only.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param group-id path string true "Group ID"
// @Param group body models.GroupRequest true "Name and description"
// @Success 200 {object} models.Group
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /api/groups/{group-id} [put]
func UpdateGroup(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateGroupService(w, r)
	}
}

// @Summary Delete a group
// @Description Owner only. Deletes the events of the group too.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param group-id path string true "Group ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /api/groups/{group-id} [delete]
func DeleteGroup(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteGroupService(w, r)
	}
}
